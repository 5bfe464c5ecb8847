package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/vaani/internal/logger"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// HFTranscriber calls a hosted Whisper model on the Hugging Face inference
// API.  The raw audio bytes are the request body.
type HFTranscriber struct {
	URL     string
	Token   string
	Client  *http.Client
	Retries int           // extra attempts after the first on transient failures
	Backoff time.Duration // pause before a retry
}

// NewHFTranscriber returns a transcriber for url authenticated with token.
func NewHFTranscriber(url, token string, client *http.Client, retries int) *HFTranscriber {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HFTranscriber{URL: url, Token: token, Client: client, Retries: retries, Backoff: 500 * time.Millisecond}
}

type hfResponse struct {
	Text  *string         `json:"text"`
	Error json.RawMessage `json:"error"`
}

// Transcribe sends audio to the service.  Oversized audio and a missing
// token are rejected before any request is made.
func (t *HFTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) > MaxAudioBytes {
		return "", ErrPayloadTooLarge
	}
	if t.Token == "" {
		return "", fmt.Errorf("%w: HF_TOKEN not set", ErrMissingCredentials)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log := logger.FromContext(ctx)
	var lastErr error
	for attempt := 0; attempt <= t.Retries; attempt++ {
		if attempt > 0 {
			log.Warn("retrying transcription", "attempt", attempt+1, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, ctx.Err())
			case <-time.After(t.Backoff):
			}
		}
		text, retry, err := t.do(ctx, audio, contentType)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", lastErr
}

// do performs one request.  retry reports whether the failure is transient.
func (t *HFTranscriber) do(ctx context.Context, audio []byte, contentType string) (text string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(audio))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+t.Token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("%w: read body: %v", ErrTranscriptionFailed, err)
	}

	var parsed hfResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && len(parsed.Error) > 0 {
			msg = errorMessage(parsed.Error)
		}
		return "", transient, fmt.Errorf("%w: status %d: %s", ErrTranscriptionFailed, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", false, fmt.Errorf("%w: malformed response: %v", ErrTranscriptionFailed, decodeErr)
	}
	if parsed.Text != nil {
		return *parsed.Text, false, nil
	}
	if len(parsed.Error) > 0 {
		return "", false, fmt.Errorf("%w: service error: %s", ErrTranscriptionFailed, errorMessage(parsed.Error))
	}
	return "", false, fmt.Errorf("%w: unexpected response: %s", ErrTranscriptionFailed, truncate(string(body), 200))
}

// errorMessage flattens the service's error field, which is either a string
// or a list of strings.
func errorMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
