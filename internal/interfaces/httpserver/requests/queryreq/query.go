package queryreq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type MedicalQueryRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

type SymptomCheckRequest struct {
	Symptoms   string       `json:"symptoms"`
	Age        string       `json:"age,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	Conditions ConditionSet `json:"conditions,omitempty" swaggertype:"array,string"`
	Model      string       `json:"model,omitempty"`
}

type VoiceAssistantRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

// ConditionSet is a list of pre-existing conditions. It also accepts the checkbox form
// {"diabetes": true, "asthma": false}, keeping the checked names in sorted order.
type ConditionSet []string

func (s *ConditionSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("conditions: %w", err)
		}
		*s = compact(list)
		return nil
	case '{':
		var flags map[string]bool
		if err := json.Unmarshal(trimmed, &flags); err != nil {
			return fmt.Errorf("conditions: %w", err)
		}
		checked := make([]string, 0, len(flags))
		for name, on := range flags {
			if on {
				checked = append(checked, name)
			}
		}
		sort.Strings(checked)
		*s = compact(checked)
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("conditions: %w", err)
		}
		*s = compact(strings.Split(single, ","))
		return nil
	}
	return fmt.Errorf("conditions: expected a list or an object")
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
