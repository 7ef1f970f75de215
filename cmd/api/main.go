package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
	"github.com/bhardwajvivekkumar/JobSync/internal/auth"
	"github.com/bhardwajvivekkumar/JobSync/internal/dashboard"
	"github.com/bhardwajvivekkumar/JobSync/internal/export"
	"github.com/bhardwajvivekkumar/JobSync/internal/mailer"
	"github.com/bhardwajvivekkumar/JobSync/internal/router"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	secret := mustJWTSecret()

	clientURL := strings.TrimSpace(os.Getenv("CLIENT_URL"))
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("JobSync API")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	userStore := auth.NewPostgresStore(pool)
	appStore := applications.NewPostgresStore(pool)

	appService := applications.NewService(appStore)
	engine := dashboard.NewEngine(appStore)

	authHandler := &auth.Handler{
		Users:     userStore,
		Mailer:    mailer.NewFromEnv(),
		JWTSecret: secret,
		ClientURL: clientURL,
	}

	r := &router.Router{
		AuthHandler:      authHandler,
		AppsHandler:      applications.NewHandler(appService),
		DashboardHandler: dashboard.NewHandler(engine),
		ExportHandler:    export.NewHandler(appService),
		AuthMW:           auth.Middleware(userStore, secret),
		LoginLimiter:     rateLimitAuth(),
	}
	r.RegisterRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Listening on port", port)
	log.Fatal(app.Listen(":" + port))
}

func rateLimitAuth() fiber.Handler {
	max := 20
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_AUTH_MAX")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			max = parsed
		}
	}

	window := time.Minute
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_AUTH_WINDOW_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			window = time.Duration(parsed) * time.Second
		}
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}

// mustJWTSecret loads JWT_SECRET from the environment or exits the process.
func mustJWTSecret() []byte {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	return []byte(secret)
}
