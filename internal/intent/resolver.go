package intent

import (
	"context"

	"github.com/iliyamo/vaani/internal/logger"
)

// Resolver runs the full command pipeline.  Failures are reported inside
// the Result, never as a Go error, so callers can render them directly.
type Resolver struct {
	Transcriber Transcriber
	Interpreter Interpreter
}

// NewResolver wires a transcriber and an interpreter.
func NewResolver(t Transcriber, i Interpreter) *Resolver {
	return &Resolver{Transcriber: t, Interpreter: i}
}

// ResolveAudio transcribes audio and interprets the transcription.
func (r *Resolver) ResolveAudio(ctx context.Context, audio []byte, contentType string) Result {
	log := logger.FromContext(ctx)

	text, err := r.Transcriber.Transcribe(ctx, audio, contentType)
	if err != nil {
		log.Warn("transcription failed", "bytes", len(audio), "err", err)
		return failed("", err)
	}
	log.Info("transcribed command", "chars", len(text))
	return r.interpret(ctx, text)
}

// ResolveText interprets a typed command.  The input is echoed back as the
// transcription.
func (r *Resolver) ResolveText(ctx context.Context, text string) Result {
	return r.interpret(ctx, text)
}

// interpret runs even for an empty transcription; the service answers
// unknown for it.
func (r *Resolver) interpret(ctx context.Context, text string) Result {
	in, err := r.Interpreter.Interpret(ctx, text)
	if err != nil {
		logger.FromContext(ctx).Warn("interpretation failed", "err", err)
		return failed(text, err)
	}
	logger.FromContext(ctx).Info("interpreted command", "intent", string(in.Kind))
	return resultFor(text, in)
}
