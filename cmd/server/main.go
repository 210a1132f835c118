package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/config"
	"github.com/contactportal/backend/internal/handler"
	"github.com/contactportal/backend/internal/logging"
	"github.com/contactportal/backend/internal/render"
	"github.com/contactportal/backend/internal/repository"
	"github.com/contactportal/backend/internal/service"
	"github.com/contactportal/backend/pkg/auth"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	policy, err := access.DefaultPolicy()
	if err != nil {
		logging.Fatal("failed to load access policy", "error", err)
	}
	renderer, err := render.New()
	if err != nil {
		logging.Fatal("failed to parse templates", "error", err)
	}

	contactRepo := repository.NewPgContactRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)
	followerRepo := repository.NewPgFollowerRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	txManager := repository.NewTxManager(pool)

	checker := access.NewChecker(policy)
	sessionService := service.NewSessionService(sessionRepo, cfg.SessionDuration)
	contactPortalService := service.NewContactPortalService(contactRepo, checker, sessionService, cfg.ItemsPerPage)
	portalHomeService := service.NewPortalHomeService(contactPortalService)
	portalWizardService := service.WithTransaction(
		service.WithSelfFollower(service.NewPortalWizardService(contactRepo, userRepo, checker), followerRepo),
		txManager,
	)
	contactShareService := service.NewContactShareService(contactRepo, checker)

	h := handler.New(userRepo, cfg.FrontendURL)
	contactPortalHandler := handler.NewContactPortalHandler(contactPortalService, sessionService, renderer)
	portalHomeHandler := handler.NewPortalHomeHandler(portalHomeService, renderer)
	portalWizardHandler := handler.NewPortalWizardHandler(portalWizardService)
	contactShareHandler := handler.NewContactShareHandler(contactShareService)

	loadUser := handler.LoadUser(userRepo)
	chain := func(mw ...func(http.Handler) http.Handler) func(http.HandlerFunc) http.Handler {
		return func(fn http.HandlerFunc) http.Handler {
			var next http.Handler = fn
			for i := len(mw) - 1; i >= 0; i-- {
				next = mw[i](next)
			}
			return next
		}
	}

	var wrapPage, wrapAPI, wrapPublic func(http.HandlerFunc) http.Handler
	if cfg.AuthRequired {
		wrapPage = chain(auth.RequireLogin(sessionService, cfg.LoginURL), loadUser)
		wrapAPI = chain(auth.RequireAuth(sessionService), loadUser)
		wrapPublic = chain(auth.OptionalAuth(sessionService), loadUser)
	} else {
		slog.Warn("authentication disabled, every request runs as the dev user", "user_id", cfg.DevUserID)
		dev := auth.DevAuth(cfg.DevUserID)
		wrapPage = chain(dev, loadUser)
		wrapAPI = wrapPage
		wrapPublic = wrapPage
	}
	limiter := handler.NewRateLimiter(ctx, cfg.RateLimitPerMinute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	// Portal pages
	mux.Handle("GET /my", wrapPage(portalHomeHandler.Home))
	mux.Handle("POST /my/counters", wrapAPI(portalHomeHandler.Counters))
	mux.Handle("GET /my/contacts", wrapPage(contactPortalHandler.MyContacts))
	mux.Handle("GET /my/contacts/page/{page}", wrapPage(contactPortalHandler.MyContacts))
	mux.Handle("GET /my/contacts/{contact_id}", limiter.Middleware(wrapPublic(contactPortalHandler.ContactPage)))

	// Back-office API (internal users; services enforce access rights)
	mux.Handle("POST /api/contacts/{id}/share", wrapAPI(contactShareHandler.Share))
	mux.Handle("POST /api/portal-wizard/{partner_id}/grant", wrapAPI(portalWizardHandler.Grant))
	mux.Handle("POST /api/portal-wizard/{partner_id}/revoke", wrapAPI(portalWizardHandler.Revoke))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
