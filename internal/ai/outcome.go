package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/versefinder/versefinder/internal/scripture"
)

// ErrMalformedCompletion means the model answered but the answer could not
// be read as either a reference or a not-found verdict.
var ErrMalformedCompletion = errors.New("malformed completion")

// Outcome is the resolver's verdict: either no passage matches the story,
// or a single reference does.
type Outcome struct {
	reference string
}

// NotFound is the verdict that no passage matches.
func NotFound() Outcome { return Outcome{} }

// Found is the verdict that ref matches.
func Found(ref string) Outcome { return Outcome{reference: ref} }

// Reference returns the matched reference and true, or "" and false for NotFound.
func (o Outcome) Reference() (string, bool) {
	return o.reference, o.reference != ""
}

func (o Outcome) String() string {
	if o.reference == "" {
		return "not found"
	}
	return o.reference
}

// ParseOutcome turns a raw completion into an Outcome. The model is asked
// for {"text": "..."}; code fences around it are tolerated, and a plain
// non-JSON answer is read as the value itself. The not-found sentinel is
// matched case-insensitively; any other value is canonicalized as a
// reference when it parses and passed through verbatim when it does not.
func ParseOutcome(raw string) (Outcome, error) {
	s := stripFences(strings.TrimSpace(raw))
	if s == "" {
		return Outcome{}, fmt.Errorf("%w: empty response", ErrMalformedCompletion)
	}

	value := s
	if strings.HasPrefix(s, "{") {
		var payload struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal([]byte(s), &payload); err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
		}
		if payload.Text == nil {
			return Outcome{}, fmt.Errorf("%w: missing \"text\" in %q", ErrMalformedCompletion, s)
		}
		value = *payload.Text
	}

	value = strings.Trim(strings.TrimSpace(value), `"'`)
	if value == "" {
		return Outcome{}, fmt.Errorf("%w: empty value", ErrMalformedCompletion)
	}

	if isNotFound(value) {
		return NotFound(), nil
	}
	return Found(scripture.Canonicalize(value)), nil
}

func isNotFound(value string) bool {
	v := strings.ToLower(strings.TrimRight(strings.TrimSpace(value), ".!"))
	return v == "not found"
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line ("json")
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
