package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/api/handlers"
	"github.com/woozysocial/woozy-api/internal/api/middleware"
	job "github.com/woozysocial/woozy-api/internal/jobs"
	"github.com/woozysocial/woozy-api/internal/queue"
	"github.com/woozysocial/woozy-api/internal/repository"
	"github.com/woozysocial/woozy-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	enqueuer := queue.NewEnqueuer(client)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	mediaService := service.NewMediaService(*cfg)
	ayrshareService := service.NewAyrshareService(*cfg)
	policyService := service.NewPolicyService(membershipRepo)
	subscriptionService := service.NewSubscriptionService(*cfg, workspaceRepo, membershipRepo, subscriptionRepo)
	workspaceService := service.NewWorkspaceService(db, workspaceRepo, membershipRepo, userRepo)
	postService := service.NewPostService(db, postRepo, approvalRepo, commentRepo, membershipRepo, policyService, subscriptionService, ayrshareService)
	approvalService := service.NewApprovalService(db, approvalRepo, postRepo, commentRepo, membershipRepo, userRepo, ayrshareService, subscriptionService, enqueuer)
	billingService := service.NewBillingService(*cfg, db, userRepo, subscriptionRepo, workspaceRepo, membershipRepo, ayrshareService, enqueuer)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Post("/logout", auth.Logout)

	billing := handlers.NewBillingHandler(billingService)
	app.Post("/webhooks/stripe", billing.HandleWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	workspace := handlers.NewWorkspaceHandler(workspaceService)
	api.Post("/workspaces/create", workspace.CreateWorkspace)
	api.Get("/workspaces", workspace.ListWorkspaces)
	api.Get("/workspaces/members", workspace.ListMembers)
	api.Post("/workspaces/members/add", workspace.AddMember)
	api.Post("/workspaces/members/change", workspace.ChangeMember)
	api.Post("/workspaces/members/remove", workspace.RemoveMember)

	post := handlers.NewPostHandler(postService, approvalService)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)
	api.Post("/posts/retry", post.RetryPost)
	api.Post("/posts/approval", post.HandleApproval)
	api.Post("/posts/comments", post.AddComment)
	api.Get("/posts/comments", post.ListComments)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)

	api.Post("/billing/checkout", billing.CreateCheckout)
	api.Post("/billing/portal", billing.CreatePortal)
	api.Post("/billing/dev_bootstrap", billing.DevBootstrap)

	// cron jobs
	statusSyncJob := job.NewStatusSyncJob(*cfg, workspaceRepo, postRepo, ayrshareService)

	//queue
	queueW := queue.NewQueue(*cfg, userRepo, postRepo, workspaceRepo, ayrshareService)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", statusSyncJob.SyncStatuses)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeNotifyApproval, queueW.HandleNotifyApprovalTask)
		mux.HandleFunc(queue.TaskTypeReconcileProfile, queueW.HandleReconcileProfileTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
