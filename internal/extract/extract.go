// Package extract recovers a structured JSON payload from free-form model
// output.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yourusername/scoreline/internal/models"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)```")

// Payload locates and returns the first parseable JSON document inside text.
// The fallback chain is ordered and the first success wins:
//
//  1. the contents of a fenced code block (optionally tagged json)
//  2. the substring between the first opening and the last closing delimiter
//  3. the whole text with fence markers and a leading "json" token stripped
//
// If every step fails, a models.ErrMalformedResponse is returned. Payload is
// deterministic and never panics on verbose input.
//
// Known limitation, preserved on purpose: step 2 slices to the LAST closing
// delimiter in the text, so a brace inside a string value that appears after
// the real payload can mis-slice the candidate. Responses that embed JSON in
// trailing prose containing braces fall through to step 3.
func Payload(text string) (json.RawMessage, error) {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if candidate := strings.TrimSpace(m[1]); gjson.Valid(candidate) {
			return json.RawMessage(candidate), nil
		}
	}

	if candidate, ok := delimitedSlice(text); ok && gjson.Valid(candidate) {
		return json.RawMessage(candidate), nil
	}

	stripped := strings.ReplaceAll(text, "```", "")
	stripped = strings.TrimSpace(stripped)
	stripped = strings.TrimPrefix(stripped, "json")
	stripped = strings.TrimSpace(stripped)
	if gjson.Valid(stripped) && stripped != "" {
		return json.RawMessage(stripped), nil
	}

	return nil, fmt.Errorf("%w: no structured payload in %d bytes of text", models.ErrMalformedResponse, len(text))
}

// Decode extracts the payload from text and unmarshals it into v.
func Decode(text string, v any) error {
	raw, err := Payload(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	return nil
}

// delimitedSlice cuts text from the first opening brace or bracket to the
// last closing brace or bracket.
func delimitedSlice(text string) (string, bool) {
	start := -1
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexAny(text, "}]")
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Number coerces a loosely typed JSON value into a float64. Strings with
// stray percent signs or whitespace are tolerated; anything unusable yields
// ok=false.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
