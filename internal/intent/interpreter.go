package intent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/iliyamo/vaani/internal/logger"
)

// Interpreter maps command text onto an Intent.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (Intent, error)
}

// ChatInterpreter asks an OpenAI-compatible chat completions endpoint (Gemini
// by default) to classify the command.
type ChatInterpreter struct {
	client openai.Client
	model  string
	hasKey bool
}

// ChatOptions configures NewChatInterpreter.
type ChatOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Retries    int
}

// NewChatInterpreter builds an interpreter.  A missing API key is not an
// error here; Interpret reports it on first use.
func NewChatInterpreter(o ChatOptions) *ChatInterpreter {
	opts := []option.RequestOption{
		option.WithAPIKey(o.APIKey),
		option.WithMaxRetries(o.Retries),
	}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	if o.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	}
	if o.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(o.Timeout))
	}
	return &ChatInterpreter{
		client: openai.NewClient(opts...),
		model:  o.Model,
		hasKey: o.APIKey != "",
	}
}

// Interpret sends the command prompt and validates the reply.  Transport
// and service errors are returned; an unusable reply is Unknown, not an error.
func (ci *ChatInterpreter) Interpret(ctx context.Context, text string) (Intent, error) {
	if !ci.hasKey {
		return Unknown, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrMissingCredentials)
	}

	resp, err := ci.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(text)),
		},
		Model: openai.ChatModel(ci.model),
	})
	if err != nil {
		return Unknown, fmt.Errorf("%w: chat completion: %v", ErrInterpretationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return Unknown, fmt.Errorf("%w: no choices in response", ErrInterpretationFailed)
	}

	content := resp.Choices[0].Message.Content
	logger.FromContext(ctx).Debug("interpreter reply", "raw", content)
	return ParseReply(content), nil
}
