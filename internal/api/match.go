package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/match"
)

type pairingResponse struct {
	RoomID    string `json:"roomId"`
	ProblemID string `json:"problemId"`
}

// enterQueue pairs the caller with a waiting opponent, or enqueues them.
// Responds with the pairing, or null while still waiting.
func (a *API) enterQueue(c *gin.Context) {
	p, err := a.match.EnterQueue(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondErr(c, err)
		return
	}

	respondPairing(c, p)
}

func (a *API) pollQueue(c *gin.Context) {
	p, err := a.match.PollQueue(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondErr(c, err)
		return
	}

	respondPairing(c, p)
}

func respondPairing(c *gin.Context, p *domain.Pairing) {
	if p == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, pairingResponse{
		RoomID:    p.RoomID,
		ProblemID: p.ProblemID,
	})
}

type battleSubmissionRequest struct {
	CalculationTimeMs int64  `json:"calculationTimeMs"`
	MemoryUsageKb     int64  `json:"memoryUsageKb"`
	Result            string `json:"result" binding:"required"`
	TestResults       []bool `json:"testResults" binding:"required"`
}

// submitResult records the caller's battle outcome. Responds with the
// caller's won/lost boolean if this call resolved the room, null while the
// opponent is still playing (and null on a tie, matching the poll format).
func (a *API) submitResult(c *gin.Context) {
	var req battleSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	out, err := a.match.SubmitResult(c.Request.Context(), c.Param("userId"), c.Param("roomId"), domain.BattleSubmission{
		CalculationTimeMs: req.CalculationTimeMs,
		MemoryUsageKb:     req.MemoryUsageKb,
		Result:            req.Result,
		TestResults:       req.TestResults,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOutcome(c, out)
}

func (a *API) pollResult(c *gin.Context) {
	out, err := a.match.PollResult(c.Request.Context(), c.Param("userId"), c.Param("roomId"))
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOutcome(c, out)
}

// respondOutcome flattens an outcome to the original wire format: true won,
// false lost, null for both "pending" and "tie".
func respondOutcome(c *gin.Context, out *match.Outcome) {
	if out == nil || out.Tie {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, out.Won)
}
