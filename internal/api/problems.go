package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/problem"
)

type createProblemRequest struct {
	Title       string                   `json:"title" binding:"required"`
	Slug        string                   `json:"slug" binding:"required"`
	Difficulty  string                   `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Topic       string                   `json:"topic" binding:"required"`
	Tags        []string                 `json:"tags"`
	Description string                   `json:"description" binding:"required"`
	Function    domain.FunctionSignature `json:"function" binding:"required"`
	Constraints []string                 `json:"constraints" binding:"required"`
	Examples    []domain.Example         `json:"examples" binding:"required"`
	TestCases   []domain.TestCase        `json:"testCases" binding:"required"`
}

func (a *API) createProblem(c *gin.Context) {
	var req createProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	p, err := a.problems.Create(c.Request.Context(), problem.CreateRequest{
		Title:       req.Title,
		Slug:        req.Slug,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Topic:       req.Topic,
		Tags:        req.Tags,
		Description: req.Description,
		Function:    req.Function,
		Constraints: req.Constraints,
		Examples:    req.Examples,
		TestCases:   req.TestCases,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (a *API) listProblems(c *gin.Context) {
	problems, err := a.problems.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, problems)
}

func (a *API) getProblem(c *gin.Context) {
	p, err := a.problems.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type updateProblemRequest struct {
	Title       string                    `json:"title"`
	Difficulty  string                    `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Topic       string                    `json:"topic"`
	Tags        []string                  `json:"tags"`
	Description string                    `json:"description"`
	Function    *domain.FunctionSignature `json:"function"`
	Constraints []string                  `json:"constraints"`
	Examples    []domain.Example          `json:"examples"`
	TestCases   []domain.TestCase         `json:"testCases"`
}

func (a *API) updateProblem(c *gin.Context) {
	var req updateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	p, err := a.problems.Update(c.Request.Context(), problem.UpdateRequest{
		ProblemID:   c.Param("id"),
		Title:       req.Title,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Topic:       req.Topic,
		Tags:        req.Tags,
		Description: req.Description,
		Function:    req.Function,
		Constraints: req.Constraints,
		Examples:    req.Examples,
		TestCases:   req.TestCases,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (a *API) deleteProblem(c *gin.Context) {
	if err := a.problems.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
