package gemini

import (
	"errors"
	"testing"
)

func TestExtractText_ConcatenatesPartsOfFirstCandidate(t *testing.T) {
	resp := &GenerateContentResponse{
		Candidates: []Candidate{
			{Content: &Content{Parts: []Part{{Text: "Hello, "}, {Text: "world!"}}}},
			{Content: &Content{Parts: []Part{{Text: "ignored second candidate"}}}},
		},
	}

	got, err := ExtractText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello, world!" {
		t.Errorf("expected %q, got %q", "Hello, world!", got)
	}
}

func TestExtractText_SkipsNonTextParts(t *testing.T) {
	resp := &GenerateContentResponse{
		Candidates: []Candidate{
			{Content: &Content{Parts: []Part{{Text: ""}, {Text: "answer"}, {Text: ""}}}},
		},
	}

	got, err := ExtractText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "answer" {
		t.Errorf("expected %q, got %q", "answer", got)
	}
}

func TestExtractText_NoContent(t *testing.T) {
	tests := []struct {
		name string
		resp *GenerateContentResponse
	}{
		{"nil response", nil},
		{"empty candidates", &GenerateContentResponse{}},
		{"candidate without content", &GenerateContentResponse{
			Candidates: []Candidate{{FinishReason: "SAFETY"}},
		}},
		{"content without parts", &GenerateContentResponse{
			Candidates: []Candidate{{Content: &Content{}}},
		}},
		{"parts without text", &GenerateContentResponse{
			Candidates: []Candidate{{Content: &Content{Parts: []Part{{}, {}}}}},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractText(tc.resp)
			if !errors.Is(err, ErrNoContent) {
				t.Errorf("expected ErrNoContent, got %v", err)
			}
		})
	}
}
