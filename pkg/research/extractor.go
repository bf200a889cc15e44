package research

import (
	"encoding/json"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// ExtractUpdates recovers an ordered list of update records from free-form
// model output. The provider is instructed to answer with a bare JSON array,
// but routinely wraps it in prose, code fences, or an object envelope, so
// recovery is attempted in priority order:
//
//  1. slice from the first '[' to the last ']' and parse that;
//  2. parse the entire text: a bare array is returned directly, and an
//     object is scanned in document order for its first array-valued member
//     (handles {"results": [...]} style wrapping);
//  3. give up and return an empty list.
//
// It never returns an error: unparseable output degrades to zero records,
// which callers treat the same as a genuine no-results answer.
func ExtractUpdates(text string) []Update {
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start != -1 && start < end {
		if updates, err := decodeUpdateArray(text[start : end+1]); err == nil {
			return updates
		}
	}

	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		switch {
		case strings.HasPrefix(trimmed, "["):
			if updates, err := decodeUpdateArray(trimmed); err == nil {
				return updates
			}
		case strings.HasPrefix(trimmed, "{"):
			if updates, ok := scanObjectForArray(trimmed); ok {
				return updates
			}
		}
	}

	logx.Errorf("research: no update array recoverable from response (%d bytes)", len(text))
	return []Update{}
}

// decodeUpdateArray parses a JSON array and converts each object element into
// an Update. Elements that are not objects carry nothing renderable and are
// dropped.
func decodeUpdateArray(s string) ([]Update, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(s), &elements); err != nil {
		return nil, err
	}

	updates := make([]Update, 0, len(elements))
	for _, el := range elements {
		var fields map[string]any
		if err := json.Unmarshal(el, &fields); err != nil {
			continue
		}
		updates = append(updates, updateFromFields(fields))
	}
	return updates, nil
}

// scanObjectForArray walks a JSON object's members in document order and
// returns the records of the first array-valued member. A token-level walk is
// used so member order is preserved; a decoded map would lose it.
func scanObjectForArray(text string) ([]Update, bool) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		val := strings.TrimSpace(string(raw))
		if strings.HasPrefix(val, "[") {
			updates, err := decodeUpdateArray(val)
			return updates, err == nil
		}
	}
	return nil, false
}

func updateFromFields(fields map[string]any) Update {
	var u Update
	if s, ok := fields["title"].(string); ok {
		u.Title = s
	}
	if s, ok := fields["summary"].(string); ok {
		u.Summary = s
	}
	if s, ok := fields["url"].(string); ok {
		u.URL = s
	}
	return u.withDefaults()
}
