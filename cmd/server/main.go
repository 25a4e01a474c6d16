package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/api"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/events"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/realtime"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/tracing"
	_ "github.com/mohammed-sarhad-ahmed/skillswap-backend/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("skillswap-backend")

	shutdownTracer, err := tracing.InitTracerProvider("skillswap-backend")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	apptRepo := repository.NewPostgresAppointmentRepository(db)
	courseRepo := repository.NewPostgresCourseRepository(db)
	ratingRepo := repository.NewPostgresRatingRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)
	notifRepo := repository.NewPostgresNotificationRepository(db)
	connRepo := repository.NewPostgresConnectionRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)

	hub := realtime.NewHub()

	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo)
	apptService := service.NewAppointmentService(apptRepo, userRepo, eventPublisher)
	courseService := service.NewCourseService(courseRepo, userRepo, eventPublisher)
	ratingService := service.NewRatingService(ratingRepo, apptRepo, userRepo)
	notifService := service.NewNotificationService(notifRepo, eventPublisher, hub)
	chatService := service.NewChatService(messageRepo, userRepo, notifService)
	connService := service.NewConnectionService(connRepo, userRepo, notifService)
	reportService := service.NewReportService(reportRepo, userRepo)

	_, err = events.NewPushSubscriber(natsURL, userRepo)
	if err != nil {
		log.Printf("WARNING: Failed to start push subscriber: %v", err)
		// Continue running even if subscriber fails, NATS may not be ready
	}

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService)
	apptHandler := api.NewAppointmentHandler(apptService)
	courseHandler := api.NewCourseHandler(courseService)
	ratingHandler := api.NewRatingHandler(ratingService)
	chatHandler := api.NewChatHandler(chatService)
	notifHandler := api.NewNotificationHandler(notifService)
	connHandler := api.NewConnectionHandler(connService)
	reportHandler := api.NewReportHandler(reportService)

	gateway := realtime.NewGateway(hub, chatService, connService, slog.Default())

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "skillswap-backend"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws", gateway.Upgrade)
	app.Get("/ws", gateway.Handler())

	v1 := app.Group("/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)

	userRoutes := v1.Group("/users")
	userRoutes.Use(api.AuthMiddleware())
	userRoutes.Get("/me", authHandler.GetUserProfile)
	userRoutes.Put("/me", userHandler.UpdateProfile)
	userRoutes.Delete("/me", userHandler.DeleteAccount)
	userRoutes.Post("/me/credits", userHandler.PurchaseCredits)
	userRoutes.Post("/me/devices", userHandler.RegisterDevice)
	userRoutes.Get("/:id", userHandler.GetUser)
	userRoutes.Get("/:id/ratings", ratingHandler.ListByTeacher)
	userRoutes.Get("/:id/ratings/stats", ratingHandler.Stats)
	userRoutes.Put("/:id/ban", api.AdminMiddleware(), userHandler.SetBanned)

	apptRoutes := v1.Group("/appointments")
	apptRoutes.Use(api.AuthMiddleware())
	apptRoutes.Post("/", apptHandler.Book)
	apptRoutes.Get("/", apptHandler.List)
	apptRoutes.Get("/next", apptHandler.NextSession)
	apptRoutes.Get("/active", apptHandler.ActiveSession)
	apptRoutes.Patch("/change-schedule/:id", apptHandler.Reschedule)
	apptRoutes.Get("/:id", apptHandler.Get)
	apptRoutes.Patch("/:id", apptHandler.UpdateStatus)
	apptRoutes.Delete("/:id", apptHandler.Delete)

	courseRoutes := v1.Group("/courses")
	courseRoutes.Use(api.AuthMiddleware())
	courseRoutes.Post("/", courseHandler.Propose)
	courseRoutes.Get("/", courseHandler.List)
	courseRoutes.Get("/proposals", courseHandler.ListProposals)
	courseRoutes.Get("/:id", courseHandler.Get)
	courseRoutes.Get("/:id/stats", courseHandler.Stats)
	courseRoutes.Post("/:id/accept", courseHandler.Accept)
	courseRoutes.Post("/:id/reject", courseHandler.Reject)
	courseRoutes.Post("/:id/cancel", courseHandler.Cancel)
	courseRoutes.Patch("/:id/weeks/:week/:side", courseHandler.UpdateWeek)
	courseRoutes.Patch("/:id/weeks/:week/:side/complete", courseHandler.CompleteWeek)
	courseRoutes.Post("/:id/weeks/:week/:side/content", courseHandler.AddWeekContent)
	courseRoutes.Delete("/:id/weeks/:week/:side/content/:contentId", courseHandler.DeleteWeekContent)

	ratingRoutes := v1.Group("/ratings")
	ratingRoutes.Use(api.AuthMiddleware())
	ratingRoutes.Post("/", ratingHandler.RateSession)
	ratingRoutes.Get("/mine", ratingHandler.ListMine)
	ratingRoutes.Put("/:id/reply", ratingHandler.Reply)

	chatRoutes := v1.Group("/chats")
	chatRoutes.Use(api.AuthMiddleware())
	chatRoutes.Post("/messages", chatHandler.SendMessage)
	chatRoutes.Get("/conversations", chatHandler.Conversations)
	chatRoutes.Get("/:userId/messages", chatHandler.RoomHistory)
	chatRoutes.Put("/:userId/read", chatHandler.MarkRead)

	notifRoutes := v1.Group("/notifications")
	notifRoutes.Use(api.AuthMiddleware())
	notifRoutes.Get("/", notifHandler.List)
	notifRoutes.Get("/unread-count", notifHandler.UnreadCount)
	notifRoutes.Patch("/read", notifHandler.MarkRead)
	notifRoutes.Patch("/:id/seen", notifHandler.MarkSeen)
	notifRoutes.Delete("/:id", notifHandler.Delete)

	connRoutes := v1.Group("/connections")
	connRoutes.Use(api.AuthMiddleware())
	connRoutes.Get("/", connHandler.List)
	connRoutes.Post("/:userId/request", connHandler.SendRequest)
	connRoutes.Post("/:userId/respond", connHandler.Respond)
	connRoutes.Delete("/:userId/request", connHandler.CancelRequest)
	connRoutes.Delete("/:userId", connHandler.Disconnect)

	reportRoutes := v1.Group("/reports")
	reportRoutes.Use(api.AuthMiddleware())
	reportRoutes.Post("/", reportHandler.File)
	reportRoutes.Put("/:id/defense", reportHandler.SubmitDefense)
	reportRoutes.Get("/", api.AdminMiddleware(), reportHandler.List)
	reportRoutes.Get("/:id", api.AdminMiddleware(), reportHandler.Get)
	reportRoutes.Put("/:id/resolve", api.AdminMiddleware(), reportHandler.Resolve)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Listening skillswap-backend on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
