package gemini

import (
	"errors"
	"strings"
)

// ErrNoContent means the upstream answered but produced no usable text,
// which usually indicates safety filtering blocked the candidates.
var ErrNoContent = errors.New("gemini: response contained no text")

// ExtractText returns the concatenated text parts of the first candidate,
// skipping non-text parts. Missing candidates, missing content or an
// all-empty part list yield ErrNoContent rather than a fabricated reply.
func ExtractText(resp *GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoContent
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", ErrNoContent
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrNoContent
	}
	return text.String(), nil
}
