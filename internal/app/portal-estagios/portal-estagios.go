// Package portalestagios assembles the portal: storage, migrations, cache,
// services and the HTTP server.
package portalestagios

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/meuprojeto/portal-estagios/internal/cache"
	"github.com/meuprojeto/portal-estagios/internal/config"
	"github.com/meuprojeto/portal-estagios/internal/lib/jwt"
	"github.com/meuprojeto/portal-estagios/internal/lib/password"
	"github.com/meuprojeto/portal-estagios/internal/migrations"
	applicationservice "github.com/meuprojeto/portal-estagios/internal/services/application"
	areaservice "github.com/meuprojeto/portal-estagios/internal/services/area"
	authservice "github.com/meuprojeto/portal-estagios/internal/services/auth"
	companyservice "github.com/meuprojeto/portal-estagios/internal/services/company"
	jobofferservice "github.com/meuprojeto/portal-estagios/internal/services/joboffer"
	resumeservice "github.com/meuprojeto/portal-estagios/internal/services/resume"
	studentservice "github.com/meuprojeto/portal-estagios/internal/services/student"
	"github.com/meuprojeto/portal-estagios/internal/storage/repository"
)

// Bootstrap admin identity, recreated on every start if missing.
const (
	adminNome  = "Administrador"
	adminEmail = "admin@portal.com"
	adminSenha = "admin123"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = seedAdmin(ctx, db, logger); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, db, jwtMaker)
	areaService := areaservice.NewAreaService(db, logger)
	companyService := companyservice.NewCompanyService(db, logger)
	studentService := studentservice.NewStudentService(db, logger)
	jobOfferService := jobofferservice.NewJobOfferService(db, cacheRedis, logger)
	applicationService := applicationservice.NewApplicationService(db, logger)
	resumeService := resumeservice.NewResumeService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Auth:        authService,
		Area:        areaService,
		Company:     companyService,
		Student:     studentService,
		JobOffer:    jobOfferService,
		Application: applicationService,
		Resume:      resumeService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// seedAdmin guarantees the bootstrap ADMIN exists. The hash is computed at
// startup so no password material lives in the migrations.
func seedAdmin(ctx context.Context, db *repository.Storage, logger *slog.Logger) error {
	hash, err := password.GetHash(adminSenha)
	if err != nil {
		return err
	}
	created, err := db.EnsureAdmin(ctx, adminNome, adminEmail, hash)
	if err != nil {
		return err
	}
	if created {
		logger.Info("seeded bootstrap admin", slog.String("email", adminEmail))
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
