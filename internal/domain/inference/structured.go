package inference

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"medisage-api/internal/domain/model"
)

// ExtractJSONObject strictly decodes text as a single JSON object. One surrounding
// markdown code fence is tolerated since several providers add it even in JSON mode.
func ExtractJSONObject(provider model.ProviderKind, text string) (json.RawMessage, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return nil, &ProviderParseError{Provider: provider, Raw: text, Err: errors.New("empty response")}
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &ProviderParseError{Provider: provider, Raw: text, Err: err}
	}
	if dec.More() {
		return nil, &ProviderParseError{Provider: provider, Raw: text, Err: errors.New("trailing data after JSON object")}
	}
	if obj == nil {
		return nil, &ProviderParseError{Provider: provider, Raw: text, Err: errors.New("expected a JSON object")}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(body)); err != nil {
		return nil, &ProviderParseError{Provider: provider, Raw: text, Err: err}
	}
	return json.RawMessage(compact.Bytes()), nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		lang := strings.TrimSpace(inner[:nl])
		if lang == "" || strings.EqualFold(lang, "json") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
