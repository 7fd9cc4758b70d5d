package nl2sql

import (
	"context"
	"fmt"
)

// Completer sends a prompt to a text-completion service and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Translator turns a question into a cleaned SQL statement. Every call reaches
// the completion service; identical questions may yield different SQL.
type Translator struct {
	completer Completer
}

func NewTranslator(completer Completer) (*Translator, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	return &Translator{completer: completer}, nil
}

func (t *Translator) Translate(ctx context.Context, question string) (Result, error) {
	raw, err := t.completer.Complete(ctx, BuildPrompt(question))
	if err != nil {
		return Result{}, fmt.Errorf("%s completion: %w", t.completer.Provider(), err)
	}
	return Result{
		SQL:      ExtractSQL(raw),
		Provider: t.completer.Provider(),
		Model:    t.completer.Model(),
	}, nil
}
