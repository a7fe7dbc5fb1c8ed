// Package ai maps free-text story descriptions to scripture references
// with a hosted language model.
package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Instruction is the fixed system prompt sent with every story.
const Instruction = `You are a language model trained to find Bible references based on user descriptions.
Your task is to provide a Bible reference that matches the user's description, regardless of the language used.
If the description does not match any Bible reference, respond with a JSON object with the key "text" and the value "not found".
If the description matches a Bible reference, respond with a JSON object with the key "text" and the value being the Bible reference in the format "Book Chapter:StartVerse-EndVerse" (for example "Luke 15:4-6").`

// maxOutputTokens keeps the answer to a short classification.
const maxOutputTokens = 50

// Completer runs one single-turn completion against a hosted model.
type Completer interface {
	Complete(ctx context.Context, instruction, story string) (string, error)
	Name() string
}

// Resolver classifies a story as a scripture reference or not found.
type Resolver struct {
	completer Completer
	timeout   time.Duration
	log       *zap.Logger
}

func NewResolver(completer Completer, timeout time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{
		completer: completer,
		timeout:   timeout,
		log:       log.Named("resolver"),
	}
}

// Resolve asks the model about story. Every failure, including a timeout
// or an unreadable answer, is returned as a *GenerationError.
func (r *Resolver) Resolve(ctx context.Context, story string) (Outcome, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := r.completer.Complete(ctx, Instruction, story)
	if err != nil {
		genErr := classify(r.completer.Name(), err)
		r.log.Warn("completion failed",
			zap.String("provider", r.completer.Name()),
			zap.Int("status", genErr.Status),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return Outcome{}, genErr
	}

	outcome, err := ParseOutcome(raw)
	if err != nil {
		r.log.Warn("unusable completion", zap.String("raw", raw), zap.Error(err))
		return Outcome{}, classify(r.completer.Name(), err)
	}

	r.log.Debug("completion parsed",
		zap.String("raw", raw),
		zap.Stringer("outcome", outcome),
		zap.Duration("latency", time.Since(start)))
	return outcome, nil
}
