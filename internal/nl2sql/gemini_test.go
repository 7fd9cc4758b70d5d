package nl2sql

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotPrompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestGeminiCompleterJoinsParts(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "SELECT "}, {Text: "1;"}}},
		}},
	}}
	completer := &GeminiCompleter{models: gen}

	got, err := completer.Complete(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "SELECT 1;" {
		t.Fatalf("Complete() = %q", got)
	}
	if gen.gotModel != GeminiModel || gen.gotPrompt != "prompt text" {
		t.Fatalf("model=%q prompt=%q", gen.gotModel, gen.gotPrompt)
	}
}

func TestGeminiCompleterErrors(t *testing.T) {
	completer := &GeminiCompleter{models: &fakeGenerator{err: errors.New("quota")}}
	if _, err := completer.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error")
	}

	completer = &GeminiCompleter{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}}
	if _, err := completer.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestNewGeminiCompleterRequiresKey(t *testing.T) {
	if _, err := NewGeminiCompleter(context.Background(), " "); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
