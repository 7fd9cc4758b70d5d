package nl2sql

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeCompleter struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompleter) Provider() string { return "fake" }

func (f *fakeCompleter) Model() string { return "fake-model" }

func TestTranslateExtractsSQL(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"```sql\nSELECT COUNT(*) FROM STUDENT;\n```"}}
	translator, err := NewTranslator(completer)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	result, err := translator.Translate(context.Background(), "How many entries of records are present?")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.SQL != "SELECT COUNT(*) FROM STUDENT;" {
		t.Fatalf("SQL = %q", result.SQL)
	}
	if result.Provider != "fake" || result.Model != "fake-model" {
		t.Fatalf("result = %+v", result)
	}
	if len(completer.prompts) != 1 || !strings.Contains(completer.prompts[0], "How many entries of records are present?") {
		t.Fatalf("prompts = %#v", completer.prompts)
	}
}

func TestTranslateDoesNotCache(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"SELECT 1;", "SELECT 2;"}}
	translator, err := NewTranslator(completer)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	first, err := translator.Translate(context.Background(), "same")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	second, err := translator.Translate(context.Background(), "same")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if len(completer.prompts) != 2 {
		t.Fatalf("completion calls = %d", len(completer.prompts))
	}
	if first.SQL == second.SQL {
		t.Fatalf("expected independent completions, got %q twice", first.SQL)
	}
}

func TestTranslatePropagatesCompletionError(t *testing.T) {
	boom := errors.New("rate limited")
	translator, err := NewTranslator(&fakeCompleter{err: boom})
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}
	_, err = translator.Translate(context.Background(), "q")
	if !errors.Is(err, boom) {
		t.Fatalf("Translate() error = %v", err)
	}
}

func TestNewTranslatorRequiresCompleter(t *testing.T) {
	if _, err := NewTranslator(nil); err == nil {
		t.Fatal("expected error for nil completer")
	}
}
