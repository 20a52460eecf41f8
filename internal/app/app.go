// Package app wires the application together: configuration, storage,
// services, mailer, and the HTTP server with graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
	"github.com/hirafie/hirafie-backend/internal/httpapi"
	"github.com/hirafie/hirafie-backend/internal/mailer"
	"github.com/hirafie/hirafie-backend/internal/media"
	"github.com/hirafie/hirafie-backend/internal/repository"
	"github.com/hirafie/hirafie-backend/pkg/health"
	"github.com/hirafie/hirafie-backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server and the mail worker,
// and handles graceful shutdown. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabaseCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// Mail worker.
	mailSvc, err := mailer.New(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		From:      cfg.SMTP.From,
		ClientURL: cfg.ClientURL,
		QueueSize: cfg.SMTP.QueueSize,
	}, lg.Named("mailer"))
	if err != nil {
		return errors.Wrap(err, "create mailer")
	}

	// Media store.
	mediaStore, err := media.NewS3Store(ctx, media.Config{
		Bucket:        cfg.S3.Bucket,
		Region:        cfg.S3.Region,
		Endpoint:      cfg.S3.Endpoint,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return errors.Wrap(err, "create media store")
	}

	// Domain services.
	userService := user.NewService(userRepo, mailSvc, user.TokenConfig{
		Secret:           []byte(cfg.JWT.Secret),
		AccessTTL:        cfg.JWT.AccessTTL,
		VerifyEmailTTL:   cfg.JWT.VerifyEmailTTL,
		ResetPasswordTTL: cfg.JWT.ResetPasswordTTL,
	})
	postService := post.NewService(postRepo, mediaStore, lg.Named("posts"))

	orderMetrics, err := order.NewMetrics(m.MeterProvider().Meter("hirafie.orders"))
	if err != nil {
		return errors.Wrap(err, "create order metrics")
	}
	orderService := order.NewService(orderRepo, postRepo, mailSvc, orderMetrics, lg.Named("orders"))

	// HTTP surface: health endpoints + the versioned API on one server.
	api := httpapi.New(userService, postService, orderService, lg.Named("http"))
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/v1/", api.NewEngine())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:     cfg.RateLimit.Max,
				Window:  cfg.RateLimit.Window,
				KeyFunc: httpmiddleware.BearerKeyFunc,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mailSvc.Run(ctx)
	})
	g.Go(func() error {
		// Graceful shutdown: flip readiness, drain, then stop the server.
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
