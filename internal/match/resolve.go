package match

import (
	"fmt"

	"github.com/codeclash/codeclash/internal/domain"
)

// Resolve compares two finished battle submissions and returns the verdict.
// It is pure and deterministic. The cascade, each criterion applying only
// when the previous one is exactly equal:
//
//  1. more passing test cases wins
//  2. an accepted solution beats a non-accepted one
//  3. both accepted: faster execution wins
//  4. still equal: lower memory usage wins
//  5. otherwise a tie, including two equally failing submissions
func Resolve(playerA, playerB string, a, b domain.BattleSubmission) domain.Verdict {
	aPassed, bPassed := a.PassCount(), b.PassCount()
	if aPassed != bPassed {
		winner, hi, lo := playerA, aPassed, bPassed
		if bPassed > aPassed {
			winner, hi, lo = playerB, bPassed, aPassed
		}
		return domain.Verdict{
			Winner: winner,
			Reason: fmt.Sprintf("More test cases passed (%d vs %d)", hi, lo),
		}
	}

	if a.Accepted() != b.Accepted() {
		winner := playerA
		if b.Accepted() {
			winner = playerB
		}
		return domain.Verdict{Winner: winner, Reason: "Solution accepted"}
	}

	// Performance only separates two accepted solutions; two failing ones
	// with the same pass count are just a tie.
	if a.Accepted() && b.Accepted() {
		if a.CalculationTimeMs != b.CalculationTimeMs {
			winner, fast, slow := playerA, a.CalculationTimeMs, b.CalculationTimeMs
			if b.CalculationTimeMs < a.CalculationTimeMs {
				winner, fast, slow = playerB, b.CalculationTimeMs, a.CalculationTimeMs
			}
			return domain.Verdict{
				Winner: winner,
				Reason: fmt.Sprintf("Faster execution (%dms vs %dms)", fast, slow),
			}
		}

		if a.MemoryUsageKb != b.MemoryUsageKb {
			winner, low, high := playerA, a.MemoryUsageKb, b.MemoryUsageKb
			if b.MemoryUsageKb < a.MemoryUsageKb {
				winner, low, high = playerB, b.MemoryUsageKb, a.MemoryUsageKb
			}
			return domain.Verdict{
				Winner: winner,
				Reason: fmt.Sprintf("Lower memory usage (%dKB vs %dKB)", low, high),
			}
		}
	}

	return domain.Verdict{Winner: domain.WinnerTie, Reason: "Same performance"}
}
