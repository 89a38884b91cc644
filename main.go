package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/database"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/cache"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Tracker ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Environment: %s", cfg.Env)
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.Database.Driver)

	// LOG_LEVEL=error silences info logs; anything else logs at info.
	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// The task cache is optional. A nil TaskCache reads straight from the database.
	var taskCache task.TaskCache
	var redisCache *cache.Cache
	if cfg.CacheEnabled() {
		redisCache = cache.New(cache.NewClient(cfg.Cache.RedisAddr), cfg.Cache.Prefix, cfg.Cache.TTL)
		taskCache = redisCache
		log.Printf("Task cache: redis at %s (ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	} else {
		log.Println("Task cache: disabled")
	}

	authModule := auth.NewModule(db, auth.JWTConfig{
		SecretKey: cfg.JWT.SecretKey,
		TokenTTL:  cfg.JWT.TokenTTL,
		Issuer:    cfg.JWT.Issuer,
	}, cfg.BcryptCost, logger)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(authModule)
	app.Register(task.NewModule(db, taskCache, logger))
	app.Register(activity.NewModule(logger)) // Consumes task events
	app.Register(api.NewModule(authModule.Tokens(), cfg.HTTPPort, logger))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg.HTTPPort)

	operations := map[string]gfshutdown.Operation{
		"mono-app": func(ctx context.Context) error {
			log.Println("Graceful shutdown initiated...")
			return app.Stop(ctx)
		},
		"database": func(_ context.Context) error {
			return database.Close(db)
		},
	}
	if redisCache != nil {
		operations["redis"] = func(_ context.Context) error {
			return redisCache.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, operations)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/signup              - Register and get an access token")
	log.Println("  POST   /api/auth/signin              - Sign in and get an access token")
	log.Println("  POST   /graphql                      - GraphQL endpoint (token optional)")
	log.Println("  GET    /health                       - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/tasks                    - List tasks (?status=&search=)")
	log.Println("  POST   /api/tasks                    - Create a task")
	log.Println("  GET    /api/tasks/:id                - Get a task")
	log.Println("  DELETE /api/tasks/:id                - Delete a task")
	log.Println("  PATCH  /api/tasks/:id/title          - Update the title")
	log.Println("  PATCH  /api/tasks/:id/description    - Update the description")
	log.Println("  PATCH  /api/tasks/:id/status         - Update the status")
	log.Println("  GET    /api/activity                 - Recent task activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
