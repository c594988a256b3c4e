// Package app wires repositories, services and handlers into the HTTP API.
package app

import (
	"context"
	"fmt"
	"net/http"

	"kambafy/internal/config"
	"kambafy/internal/middleware"
	"kambafy/internal/modules/admin"
	"kambafy/internal/modules/auth"
	"kambafy/internal/modules/catalog"
	"kambafy/internal/modules/hub"
	"kambafy/internal/modules/liveview"
	"kambafy/internal/modules/mailer"
	"kambafy/internal/modules/members"
	"kambafy/internal/modules/progress"
	"kambafy/internal/modules/quiz"
	"kambafy/internal/modules/withdrawal"
	"kambafy/internal/pkg/functions"
	"kambafy/internal/pkg/jwt"
	"kambafy/internal/pkg/kv"
	"kambafy/internal/pkg/response"
	"kambafy/internal/pkg/sitelinks"
	"kambafy/internal/pkg/video"
	"kambafy/internal/realtime"
	"kambafy/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the process-level resources the API is built on.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	KV     *kv.Store
	// Functions defaults to an HTTP client for Config.FunctionsBaseURL.
	Functions functions.Invoker
	Log       zerolog.Logger
}

type App struct {
	Router   *gin.Engine
	Realtime *realtime.Hub
	Live     *liveview.Registry
	Sessions *repository.MemberSessionRepository
	Tokens   *jwt.Service
}

func New(d Deps) (*App, error) {
	cfg, db, log := d.Config, d.DB, d.Log
	store := d.KV
	if store == nil {
		store = &kv.Store{}
	}
	fn := d.Functions
	if fn == nil {
		fn = functions.NewClient(cfg.FunctionsBaseURL, cfg.FunctionsServiceKey, cfg.FunctionsTimeout, log)
	}

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	areas := repository.NewMemberAreaRepository(db)
	students := repository.NewStudentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	sessions := repository.NewMemberSessionRepository(db)
	orders := repository.NewOrderRepository(db)
	audit := repository.NewAdminLogRepository(db)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	memberTokens := jwt.New(cfg.MemberTokenSecret, cfg.MemberSessionTTL)
	rt := realtime.NewHub(cfg.CORSAllowedOrigins, log)
	links := sitelinks.NewResolver(sitelinks.Hosts{Marketing: cfg.MarketingHost, App: cfg.AppHost, Pay: cfg.PayHost})
	mail := mailer.New(fn, links, log)

	// members, hub, progress
	manager := members.NewSessionManager(students, areas, progressRepo, sessions, audit, store, memberTokens, log, members.Options{
		BypassEmails: cfg.MemberBypassEmails,
		LoginLimit:   cfg.LoginRateLimit,
		LoginWindow:  cfg.LoginRateWindow,
	})
	progressService := progress.NewService(areas, progressRepo, manager, video.NewResolver(cfg.VideoCDNHost), cfg.ProgressWriteEvery, log)

	// live views
	rates := liveview.DefaultRates()
	if err := rates.Override("AOA", cfg.LiveRatesAOA); err != nil {
		return nil, fmt.Errorf("LIVE_RATES_AOA: %w", err)
	}
	if err := rates.Override("MZN", cfg.LiveRatesMZN); err != nil {
		return nil, fmt.Errorf("LIVE_RATES_MZN: %w", err)
	}
	views, err := liveview.DefaultViews(cfg.LiveCommissionRate)
	if err != nil {
		return nil, err
	}
	coordinators := make([]*liveview.Coordinator, 0, len(views))
	for _, v := range views {
		coordinators = append(coordinators, liveview.NewCoordinator(v, orders, users, rates, rt, cfg.LiveRefreshInterval, log))
	}
	live := liveview.NewRegistry(coordinators...)
	ingestor := liveview.NewIngestor(orders, products, areas, students, rt, log)

	authHandler := auth.NewHandler(
		auth.NewService(users, tokens, store, auth.Options{LoginLimit: cfg.LoginRateLimit, LoginWindow: cfg.LoginRateWindow}, log),
		auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
	)
	catalogHandler := catalog.NewHandler(catalog.NewService(products, areas, log))
	quizHandler := quiz.NewHandler(quiz.NewService(repository.NewQuizRepository(db), areas, log))
	withdrawalHandler := withdrawal.NewHandler(withdrawal.NewService(repository.NewWithdrawalRepository(db), users, log))
	adminHandler := admin.NewHandler(admin.NewService(users, products, audit, mail, tokens, cfg.ImpersonationMaxTTL, log))

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		if err := ping(c.Request.Context(), db, store); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		members.NewHandler(manager).RegisterRoutes(v1)

		// member session
		memberGroup := v1.Group("/members", members.RequireSession(manager))
		hub.NewHandler(hub.NewService(manager)).RegisterRoutes(memberGroup)
		progress.NewHandler(progressService).RegisterRoutes(memberGroup)

		// sellers and admins
		protected := v1.Group("", middleware.JWTAuth(tokens))
		authHandler.RegisterProtectedRoutes(protected)

		seller := v1.Group("/seller", middleware.JWTAuth(tokens), middleware.SellerOnly())
		catalogHandler.RegisterSellerRoutes(seller)
		quizHandler.RegisterRoutes(seller)
		withdrawalHandler.RegisterSellerRoutes(seller)

		adminGroup := v1.Group("/admin", middleware.JWTAuth(tokens), middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)
		withdrawalHandler.RegisterAdminRoutes(adminGroup)
		liveview.NewHandler(live, rt).RegisterRoutes(adminGroup)

		// checkout and payment back end
		internal := v1.Group("/internal", middleware.InternalTokenAuth(cfg.InternalToken, cfg.InternalAllowedIPs, log))
		liveview.NewIngestHandler(ingestor).RegisterRoutes(internal)
	}

	return &App{Router: r, Realtime: rt, Live: live, Sessions: sessions, Tokens: tokens}, nil
}

// Start begins live view refreshes. They run until Stop or ctx ends.
func (a *App) Start(ctx context.Context) {
	a.Live.Each(func(c *liveview.Coordinator) { c.Start(ctx) })
}

func (a *App) Stop() {
	a.Live.Each(func(c *liveview.Coordinator) { c.Stop() })
}

func ping(ctx context.Context, db *gorm.DB, store *kv.Store) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
