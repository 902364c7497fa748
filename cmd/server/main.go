// cmd/server/main.go
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/karibuhq/wabroadcast-backend/internal/config"
	"github.com/karibuhq/wabroadcast-backend/internal/controller"
	"github.com/karibuhq/wabroadcast-backend/internal/db"
	"github.com/karibuhq/wabroadcast-backend/internal/dispatch"
	"github.com/karibuhq/wabroadcast-backend/internal/logging"
	"github.com/karibuhq/wabroadcast-backend/internal/queue"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

func main() {
	logger := logging.New("server")

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	pool, err := db.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	orgRepo := &repository.OrganizationRepository{DB: pool}
	userRepo := &repository.UserRepository{DB: pool}
	memberRepo := &repository.MemberRepository{DB: pool}
	broadcastRepo := &repository.BroadcastRepository{DB: pool}
	logRepo := &repository.BroadcastLogRepository{DB: pool}

	var q queue.Queue
	if cfg.DispatchInline {
		// Dev mode: run dispatch in-process. The dispatcher still gets its
		// own pool so its lifetime is not tied to any request.
		workerPool, err := db.Open(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker pool connection failed")
		}
		defer workerPool.Close()

		dispatcher := &dispatch.Dispatcher{
			Broadcasts:  &repository.BroadcastRepository{DB: workerPool},
			Members:     &repository.MemberRepository{DB: workerPool},
			Orgs:        &repository.OrganizationRepository{DB: workerPool},
			Logs:        &repository.BroadcastLogRepository{DB: workerPool},
			NewSender:   dispatch.WhatsappSenderFactory(cfg.WhatsappBaseURL),
			Concurrency: cfg.DispatchConcurrency,
			SendRate:    cfg.SendRate,
			SendTimeout: cfg.SendTimeout,
			Logger:      logging.New("dispatch"),
		}
		mem := queue.NewInMemoryQueue(logger)
		mem.Subscribe(func(job queue.DispatchJob) error {
			return dispatcher.Dispatch(context.Background(), job.BroadcastID)
		})
		q = mem
		logger.Info().Msg("inline dispatch mode enabled")
	} else {
		amqpQueue, err := queue.ConnectAMQP(cfg.AMQPURL, cfg.DispatchQueue)
		if err != nil {
			logger.Fatal().Err(err).Msg("queue connection failed")
		}
		defer amqpQueue.Close()
		q = amqpQueue
	}

	authService := &service.AuthService{
		UserRepo:  userRepo,
		OrgRepo:   orgRepo,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.JWTTTL,
	}
	memberService := &service.MemberService{
		MemberRepo: memberRepo,
		LogRepo:    logRepo,
	}
	broadcastService := &service.BroadcastService{
		BroadcastRepo: broadcastRepo,
		LogRepo:       logRepo,
		Queue:         q,
		Logger:        logger,
	}

	authController := &controller.AuthController{AuthService: authService}
	memberController := &controller.MemberController{MemberService: memberService}
	broadcastController := &controller.BroadcastController{BroadcastService: broadcastService}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/signup", authController.Signup)
	r.Post("/token", authController.Token)

	r.Group(func(r chi.Router) {
		r.Use(controller.RequireAuth(authService, userRepo))

		r.Get("/users/me", authController.Me)
		r.Put("/users/me", authController.UpdateMe)

		r.Get("/members", memberController.ListMembers)
		r.Post("/members", memberController.CreateMember)
		r.Put("/members/{id}", memberController.UpdateMember)
		r.Delete("/members/{id}", memberController.DeleteMember)

		r.Post("/broadcasts", broadcastController.CreateBroadcast)
		r.Get("/broadcasts", broadcastController.ListBroadcasts)
		r.Get("/broadcasts/{id}", broadcastController.GetBroadcast)
		r.Get("/broadcasts/{id}/logs", broadcastController.GetBroadcastLogs)
	})

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("🚀 server running")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
