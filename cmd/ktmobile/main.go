package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ktmobile/internal/config"
	"ktmobile/internal/http/handlers"
	applog "ktmobile/internal/log"
	"ktmobile/internal/metrics"
	"ktmobile/internal/mirror"
	"ktmobile/internal/repos"
	"ktmobile/internal/services"
	"ktmobile/internal/tasks"
)

func main() {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		panic(err)
	}

	lg, err := applog.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()
	applog.SetLogger(lg)
	lg.Info("config.loaded", zap.Stringer("config", cfg))

	loader.Watch(func(next config.Config) {
		if err := applog.SetLevel(next.LogLevel); err != nil {
			lg.Warn("config.reload.level", zap.Error(err))
			return
		}
		lg.Info("config.reload", zap.String("log_level", next.LogLevel))
	}, func(err error) {
		lg.Warn("config.reload.invalid", zap.Error(err))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		lg.Fatal("db.open", zap.Error(err))
	}
	defer db.Close()
	// Auth wiring
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	if created, err := authSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		lg.Fatal("seed.admin", zap.Error(err))
	} else if created {
		lg.Info("seed.admin", zap.String("email", cfg.AdminEmail))
	}

	// ---------- Catalog store ----------
	var (
		store  repos.Store = repos.NewSQLiteStore(db)
		locker services.Locker
	)
	if cfg.StoreBackend == "redis" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Fatal("redis.ping", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		store = repos.NewRedisStore(rdb)
		locker = repos.NewRedisLocker(rdb, cfg.LockTTL)
	}

	m := metrics.New()
	deps := handlers.NewDeps(db, store, cfg, m, lg)
	deps.Catalog.Locker = locker

	// ---------- Cloud mirror ----------
	if cfg.MirrorEnabled() {
		client, err := mirror.NewFirestoreClient(ctx, cfg.FirestoreProject)
		if err != nil {
			lg.Fatal("mirror.client", zap.Error(err))
		}
		defer client.Close()
		mir := mirror.New(mirror.NewFirestoreStore(client, cfg.FirestoreCollection), deps.Catalog.Repo, lg.Named("mirror"))
		mir.Attempts = cfg.MirrorAttempts
		mir.Backoff = cfg.MirrorBackoff
		mir.Metrics = m

		if records, ok, err := mir.Pull(ctx); err != nil {
			lg.Warn("mirror.pull", zap.Error(err))
		} else if ok {
			wrote, err := deps.Catalog.Bootstrap(ctx, services.ReasonMirror, records)
			if err != nil {
				lg.Warn("mirror.bootstrap", zap.Error(err))
			} else if wrote {
				lg.Info("mirror.bootstrap", zap.Int("records", len(records)))
			}
		}
		deps.Bus.Subscribe(mir.OnCatalogChanged)

		task := tasks.NewMirrorRetryTask(mir, cfg.MirrorSchedule, lg.Named("tasks"))
		if err := task.Start(); err != nil {
			lg.Fatal("mirror.task", zap.Error(err))
		}
		defer task.Stop()
	}

	if cfg.SeedCatalog {
		rep, seeded, err := deps.Imports.SeedIfEmpty(ctx)
		if err != nil {
			lg.Fatal("seed.catalog", zap.Error(err))
		}
		if seeded {
			lg.Info("seed.catalog", zap.Int("added", rep.Added), zap.Int("skipped", rep.Skipped))
		}
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(cfg.LogLevel == "debug")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.AttachUser(authSvc))
	app.Use(handlers.CSRF())
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	app.Static("/static", "./web/static")
	app.Static("/images", "./web/static/images")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	handlers.Mount(app, deps, authSvc, m, handlers.Limits{})

	go func() {
		<-ctx.Done()
		lg.Info("server.shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			lg.Warn("server.shutdown", zap.Error(err))
		}
	}()

	lg.Info("server.start", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend), zap.Bool("mirror", cfg.MirrorEnabled()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Error("server.listen", zap.Error(err))
	}
}
