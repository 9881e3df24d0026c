package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/match"
)

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		a, b       domain.BattleSubmission
		wantWinner string
		wantReason string
	}{
		"more passing tests wins regardless of time and memory": {
			a: domain.BattleSubmission{
				TestResults:       []bool{true, false},
				Result:            "accepted",
				CalculationTimeMs: 1,
				MemoryUsageKb:     1,
			},
			b: domain.BattleSubmission{
				TestResults:       []bool{true, true},
				Result:            "wrong_answer",
				CalculationTimeMs: 9999,
				MemoryUsageKb:     9999,
			},
			wantWinner: "b",
			wantReason: "More test cases passed (2 vs 1)",
		},

		"accepted beats non-accepted at equal pass count": {
			a: domain.BattleSubmission{
				TestResults: []bool{true, true},
				Result:      "accepted",
			},
			b: domain.BattleSubmission{
				TestResults: []bool{true, true},
				Result:      "time_limit_exceeded",
			},
			wantWinner: "a",
			wantReason: "Solution accepted",
		},

		"both accepted, faster execution wins": {
			a: domain.BattleSubmission{
				TestResults:       []bool{true, true},
				Result:            "accepted",
				CalculationTimeMs: 100,
				MemoryUsageKb:     50,
			},
			b: domain.BattleSubmission{
				TestResults:       []bool{true, true},
				Result:            "accepted",
				CalculationTimeMs: 150,
				MemoryUsageKb:     50,
			},
			wantWinner: "a",
			wantReason: "Faster execution (100ms vs 150ms)",
		},

		"both accepted, equal time, lower memory wins": {
			a: domain.BattleSubmission{
				TestResults:       []bool{true},
				Result:            "accepted",
				CalculationTimeMs: 100,
				MemoryUsageKb:     80,
			},
			b: domain.BattleSubmission{
				TestResults:       []bool{true},
				Result:            "accepted",
				CalculationTimeMs: 100,
				MemoryUsageKb:     40,
			},
			wantWinner: "b",
			wantReason: "Lower memory usage (40KB vs 80KB)",
		},

		"both non-accepted with equal pass count is a tie": {
			a: domain.BattleSubmission{
				TestResults:       []bool{true, false},
				Result:            "wrong_answer",
				CalculationTimeMs: 10,
				MemoryUsageKb:     10,
			},
			b: domain.BattleSubmission{
				TestResults:       []bool{false, true},
				Result:            "runtime_error",
				CalculationTimeMs: 20,
				MemoryUsageKb:     20,
			},
			wantWinner: domain.WinnerTie,
			wantReason: "Same performance",
		},

		"identical accepted submissions are a tie": {
			a: domain.BattleSubmission{
				TestResults:       []bool{true, true},
				Result:            "accepted",
				CalculationTimeMs: 100,
				MemoryUsageKb:     50,
			},
			b: domain.BattleSubmission{
				TestResults:       []bool{true, true},
				Result:            "accepted",
				CalculationTimeMs: 100,
				MemoryUsageKb:     50,
			},
			wantWinner: domain.WinnerTie,
			wantReason: "Same performance",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := match.Resolve("a", "b", tt.a, tt.b)
			assert.Equal(t, tt.wantWinner, v.Winner)
			assert.Equal(t, tt.wantReason, v.Reason)
		})
	}
}

// Swapping both players and submissions must swap the winner and keep the
// deciding criterion.
func TestResolve_Commutative(t *testing.T) {
	t.Parallel()

	subs := []domain.BattleSubmission{
		{TestResults: []bool{true, true}, Result: "accepted", CalculationTimeMs: 100, MemoryUsageKb: 50},
		{TestResults: []bool{true, true}, Result: "accepted", CalculationTimeMs: 150, MemoryUsageKb: 50},
		{TestResults: []bool{true, false}, Result: "wrong_answer", CalculationTimeMs: 10, MemoryUsageKb: 10},
		{TestResults: []bool{true, true}, Result: "accepted", CalculationTimeMs: 100, MemoryUsageKb: 40},
		{TestResults: []bool{false, false}, Result: "runtime_error", CalculationTimeMs: 5, MemoryUsageKb: 5},
	}

	for _, a := range subs {
		for _, b := range subs {
			straight := match.Resolve("a", "b", a, b)
			swapped := match.Resolve("b", "a", b, a)

			require.Equal(t, straight.Winner, swapped.Winner,
				"winner must not depend on argument order: %+v vs %+v", a, b)
			require.Equal(t, straight.Reason, swapped.Reason)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	a := domain.BattleSubmission{TestResults: []bool{true, true}, Result: "accepted", CalculationTimeMs: 100, MemoryUsageKb: 50}
	b := domain.BattleSubmission{TestResults: []bool{true, false}, Result: "accepted", CalculationTimeMs: 90, MemoryUsageKb: 40}

	first := match.Resolve("a", "b", a, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, match.Resolve("a", "b", a, b))
	}
}
