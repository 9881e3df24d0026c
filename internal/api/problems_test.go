package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateProblem_Validation(t *testing.T) {
	r, _ := makeAPI(t)
	admin := issueToken(t, "root", true)

	valid := map[string]any{
		"title":       "Two Sum",
		"slug":        "two-sum",
		"difficulty":  "Easy",
		"topic":       "arrays",
		"tags":        []string{"array", "hash-table"},
		"description": "Find two numbers adding up to a target.",
		"function": map[string]any{
			"name": "twoSum",
			"parameters": []map[string]any{
				{"name": "nums", "type": "number[]", "description": "the input array"},
				{"name": "target", "type": "number", "description": "the target sum"},
			},
			"return": map[string]any{"type": "number[]", "description": "indices of the pair"},
		},
		"constraints": []string{"2 <= nums.length <= 10^4"},
		"examples": []map[string]any{
			{"input": []int{2, 7, 11, 15}, "output": []int{0, 1}, "explanation": "2 + 7 = 9"},
		},
		"testCases": []map[string]any{
			{"input": []int{2, 7}, "expectedOutput": []int{0, 1}},
		},
	}

	// Each structured field the problem schema promises must be present.
	for _, missing := range []string{"function", "constraints", "examples", "testCases"} {
		t.Run("missing "+missing, func(t *testing.T) {
			body := map[string]any{}
			for k, v := range valid {
				if k != missing {
					body[k] = v
				}
			}
			raw, err := json.Marshal(body)
			require.NoError(t, err)

			w := doAs(t, r, admin, http.MethodPost, "/problems", string(raw))
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
