package queryreq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionSetAcceptsListAndCheckboxMap(t *testing.T) {
	cases := map[string]struct {
		body string
		want []string
	}{
		"list":         {`{"conditions":["asthma"," diabetes ",""]}`, []string{"asthma", "diabetes"}},
		"checkbox map": {`{"conditions":{"heartDisease":true,"asthma":true,"diabetes":false}}`, []string{"asthma", "heartDisease"}},
		"csv string":   {`{"conditions":"asthma, allergies"}`, []string{"asthma", "allergies"}},
		"null":         {`{"conditions":null}`, nil},
		"missing":      {`{}`, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var req SymptomCheckRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			if tc.want == nil {
				assert.Empty(t, req.Conditions)
				return
			}
			assert.Equal(t, tc.want, []string(req.Conditions))
		})
	}
}

func TestConditionSetRejectsNumbers(t *testing.T) {
	var req SymptomCheckRequest
	assert.Error(t, json.Unmarshal([]byte(`{"conditions":42}`), &req))
}
