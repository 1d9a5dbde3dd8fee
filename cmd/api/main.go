package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/orgadmin-api/internal/application/form"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/application/report"
	"github.com/jhoicas/orgadmin-api/internal/application/session"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
	"github.com/jhoicas/orgadmin-api/internal/infrastructure/orgapi"
	infrapdf "github.com/jhoicas/orgadmin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/orgadmin-api/internal/infrastructure/postgres"
	infrasession "github.com/jhoicas/orgadmin-api/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/orgadmin-api/internal/interfaces/http"
	"github.com/jhoicas/orgadmin-api/pkg/config"
	"github.com/jhoicas/orgadmin-api/pkg/logger"

	_ "github.com/jhoicas/orgadmin-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("session_store", cfg.Session.Store).
		Str("org_api", cfg.OrgAPI.BaseURL).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sessionRepo, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesiones")
	}
	defer closeStore()

	sessionUC := session.NewUseCase(sessionRepo, session.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Session.AccessKeyHash, log.Component("session"))

	// Cliente del API remoto: el token sale de la sesión de cada petición.
	client := orgapi.NewClient(cfg.OrgAPI.BaseURL, cfg.OrgAPI.Timeout(), sessionUC.Credentials(), log.Component("orgapi"),
		orgapi.WithMaxResponseBytes(int64(cfg.OrgAPI.MaxResponseBytes)))
	branchRepo := orgapi.NewBranchRepository(client)
	departmentRepo := orgapi.NewDepartmentRepository(client)
	roleRepo := orgapi.NewRoleRepository(client)
	userRepo := orgapi.NewUserRepository(client)

	// Datos de referencia por sesión: lo que obtiene un token no se sirve a otra sesión.
	refHub := refdata.NewHub(branchRepo, departmentRepo, roleRepo, userRepo,
		time.Duration(cfg.JWT.Expiration)*time.Minute, log.Component("refdata"))
	go refHub.Run(ctx, sweepInterval(time.Duration(cfg.JWT.Expiration)*time.Minute))

	formFactory := form.NewFactory(form.Deps{
		Departments:     departmentRepo,
		Roles:           roleRepo,
		Users:           userRepo,
		Creds:           sessionUC.Credentials(),
		Log:             log.Component("form"),
		RolePreviewSize: cfg.Forms.RolePreviewSize,
		InitialPassword: cfg.Forms.InitialPassword,
	}, refHub)
	registry := form.NewRegistry(cfg.Forms.TTL())
	go registry.Run(ctx, sweepInterval(cfg.Forms.TTL()))

	// PDF: matriz de permisos por rol
	reportUC := report.NewUseCase(refHub, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), log.Component("report"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.OrgAPI.Timeout() + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OrgAdmin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "open_forms": registry.Len(), "sessions_with_data": refHub.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionUC: sessionUC,
		RefData:   refHub,
		Forms:     formFactory,
		Registry:  registry,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newSessionStore elige el almacén de sesiones según SESSION_STORE.
func newSessionStore(ctx context.Context, cfg *config.Config) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		rdb, err := infrasession.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return infrasession.NewRedisStore(rdb, cfg.Redis.KeyPrefix), func() { _ = rdb.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		repo := postgres.NewSessionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		return infrasession.NewMemoryStore(), func() {}, nil
	}
}

// sweepInterval revisa formularios expirados con una frecuencia proporcional al TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if iv := ttl / 4; iv > time.Minute {
		return iv
	}
	return time.Minute
}
