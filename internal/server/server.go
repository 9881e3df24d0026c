package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/codeclash/codeclash/internal/api"
	"github.com/codeclash/codeclash/internal/auth"
	"github.com/codeclash/codeclash/internal/company"
	"github.com/codeclash/codeclash/internal/event"
	"github.com/codeclash/codeclash/internal/match"
	"github.com/codeclash/codeclash/internal/problem"
	"github.com/codeclash/codeclash/internal/submission"
	"github.com/codeclash/codeclash/internal/telemetry"
	"github.com/codeclash/codeclash/internal/user"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}

	Redis struct {
		Pubsub struct {
			Addrs  []string
			Pass   string
			Prefix string
		}
	}

	Postgres struct {
		Platform struct {
			Addr string
			User string
			Pass string
			Name string
		}
	}

	Match struct {
		QueueTTL      time.Duration
		RoomTTL       time.Duration
		SweepInterval time.Duration
	}
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		redis struct {
			pubsub redis.UniversalClient
		}

		postgres struct {
			platform *pgxpool.Pool
		}
	}

	service struct {
		auth       *auth.Manager
		user       *user.Service
		company    *company.Service
		problem    *problem.Service
		submission *submission.Service
		match      *match.Engine
	}

	http *http.Server
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.initService()
	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	if err := s.initRedis(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	if err := s.initPostgres(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	return nil
}

func (s *Server) initRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    s.c.Redis.Pubsub.Addrs,
		Password: s.c.Redis.Pubsub.Pass,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		return err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return err
	}

	s.infra.redis.pubsub = r
	return nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg := s.c.Postgres.Platform

	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s", pg.User, pg.Pass, pg.Addr, pg.Name))
	if err != nil {
		return err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}

	if err := db.Ping(ctx); err != nil {
		return err
	}

	s.infra.postgres.platform = db
	return nil
}

func (s *Server) initService() {
	db := s.infra.postgres.platform

	s.service.auth = auth.NewManager(s.c.Auth.Secret, s.c.Auth.TokenTTL)

	s.service.user = user.NewService(user.Config{
		DB:   db,
		Auth: s.service.auth,
	})

	s.service.company = company.NewService(company.Config{DB: db})
	s.service.problem = problem.NewService(problem.Config{DB: db})
	s.service.submission = submission.NewService(submission.Config{DB: db})

	s.service.match = match.NewEngine(match.Config{
		Catalog:       s.service.problem,
		EventBus:      s.eb,
		QueueTTL:      s.c.Match.QueueTTL,
		RoomTTL:       s.c.Match.RoomTTL,
		SweepInterval: s.c.Match.SweepInterval,
	})
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery(), telemetry.HTTPLogger())

	api.New(api.Config{
		Router:       e,
		EventBus:     s.eb,
		Auth:         s.service.auth,
		User:         s.service.user,
		Company:      s.service.company,
		Problem:      s.service.problem,
		Submission:   s.service.submission,
		Match:        s.service.match,
		Redis:        s.infra.redis.pubsub,
		PubsubPrefix: s.c.Redis.Pubsub.Prefix,
	})

	telemetry.ObserveMatches(s.eb)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	s.service.match.Start()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.service.match.Stop()
	s.eb.Stop()
	s.infra.postgres.platform.Close()

	slog.InfoContext(ctx, "server: shutdown completed")
}
