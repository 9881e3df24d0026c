package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/codeclash/codeclash/internal/auth"
	"github.com/codeclash/codeclash/internal/company"
	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
	"github.com/codeclash/codeclash/internal/event"
	"github.com/codeclash/codeclash/internal/match"
	"github.com/codeclash/codeclash/internal/problem"
	"github.com/codeclash/codeclash/internal/submission"
	"github.com/codeclash/codeclash/internal/user"
)

type Config struct {
	Router   *gin.Engine
	EventBus *event.Bus

	Auth       *auth.Manager
	User       *user.Service
	Company    *company.Service
	Problem    *problem.Service
	Submission *submission.Service
	Match      *match.Engine

	Redis        Redis
	PubsubPrefix string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type API struct {
	auth      *auth.Manager
	users     *user.Service
	companies *company.Service
	problems  *problem.Service
	subs      *submission.Service
	match     *match.Engine

	redis  Redis
	prefix string
}

func New(c Config) *API {
	a := &API{
		auth:      c.Auth,
		users:     c.User,
		companies: c.Company,
		problems:  c.Problem,
		subs:      c.Submission,
		match:     c.Match,
		redis:     c.Redis,
		prefix:    c.PubsubPrefix,
	}

	a.register(c.Router)

	// Live notifications ride on the event bus so the engine stays unaware
	// of redis.
	c.EventBus.Subscribe(domain.EventNamePlayersPaired, func(ctx context.Context, e event.Event) error {
		return a.PublishPlayersPaired(ctx, e.(domain.EventPlayersPaired))
	})
	c.EventBus.Subscribe(domain.EventNameMatchResolved, func(ctx context.Context, e event.Event) error {
		return a.PublishMatchResolved(ctx, e.(domain.EventMatchResolved))
	})

	return a
}

func (a *API) register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/register", a.registerUser)
	r.POST("/auth/login", a.login)

	users := r.Group("/users", a.authenticate)
	{
		users.GET("", a.adminOnly, a.listUsers)
		users.GET("/:id", a.selfOrAdmin, a.getUser)
		users.PUT("/:id", a.selfOrAdmin, a.updateUser)
		users.DELETE("/:id", a.selfOrAdmin, a.deleteUser)
	}

	companies := r.Group("/companies")
	{
		companies.GET("", a.listCompanies)
		companies.GET("/:id", a.getCompany)
		companies.POST("", a.authenticate, a.adminOnly, a.createCompany)
		companies.PUT("/:id", a.authenticate, a.companyManagerOrAdmin, a.updateCompany)
		companies.DELETE("/:id", a.authenticate, a.adminOnly, a.deleteCompany)
	}

	problems := r.Group("/problems")
	{
		problems.GET("", a.listProblems)
		problems.GET("/:id", a.getProblem)
		problems.POST("", a.authenticate, a.adminOnly, a.createProblem)
		problems.PUT("/:id", a.authenticate, a.adminOnly, a.updateProblem)
		problems.DELETE("/:id", a.authenticate, a.adminOnly, a.deleteProblem)
	}

	subs := r.Group("/submissions", a.authenticate)
	{
		subs.POST("", a.createSubmission)
		subs.GET("", a.listSubmissions)
		subs.GET("/stats/:userId", a.submissionStats)
		subs.GET("/:id", a.getSubmission)
		subs.PUT("/:id", a.updateSubmission)
		subs.DELETE("/:id", a.deleteSubmission)
	}

	// The battle endpoints keep the original polling wire format: a pairing
	// object or JSON null, a boolean outcome or JSON null.
	m := r.Group("/match")
	{
		m.POST("/queue/:userId", a.enterQueue)
		m.GET("/queue/:userId", a.pollQueue)
		m.POST("/battle/:userId/:roomId", a.submitResult)
		m.GET("/battle/:userId/:roomId", a.pollResult)
	}
}

func respondErr(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), e)
}

func invalidArgument(err error) error {
	return errors.New(errors.CodeInvalidArgument,
		errors.WithMessagef("invalid request body"),
		errors.WithCause(err))
}
