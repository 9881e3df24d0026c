package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/submission"
)

type createSubmissionRequest struct {
	ProblemID string `json:"problemId" binding:"required"`
	Result    string `json:"result" binding:"required"`
	Language  string `json:"language" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// createSubmission records a practice submission for the authenticated user.
func (a *API) createSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	sub, err := a.subs.Create(c.Request.Context(), submission.CreateRequest{
		UserID:    c.GetString(ctxUserID),
		ProblemID: req.ProblemID,
		Result:    req.Result,
		Language:  req.Language,
		Code:      req.Code,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (a *API) listSubmissions(c *gin.Context) {
	subs, err := a.subs.List(c.Request.Context(), submission.ListRequest{
		UserID:    c.Query("userId"),
		ProblemID: c.Query("problemId"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (a *API) getSubmission(c *gin.Context) {
	sub, err := a.subs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

type updateSubmissionRequest struct {
	Result   string `json:"result"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (a *API) updateSubmission(c *gin.Context) {
	var req updateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	sub, err := a.subs.Update(c.Request.Context(), submission.UpdateRequest{
		SubmissionID: c.Param("id"),
		Result:       req.Result,
		Language:     req.Language,
		Code:         req.Code,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (a *API) deleteSubmission(c *gin.Context) {
	if err := a.subs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *API) submissionStats(c *gin.Context) {
	st, err := a.subs.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":         st.UserID,
		"total":          st.Total,
		"accepted":       st.Accepted,
		"acceptanceRate": st.AcceptanceRate,
	})
}
