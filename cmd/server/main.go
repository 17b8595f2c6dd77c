// Package main is the application entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"assistant-go/internal/config"
	"assistant-go/internal/handler"
	"assistant-go/internal/middleware"
	"assistant-go/internal/model"
	"assistant-go/internal/pipeline"
	"assistant-go/internal/repository"
	"assistant-go/internal/service"
	"assistant-go/pkg/database"
	"assistant-go/pkg/es"
	"assistant-go/pkg/events"
	"assistant-go/pkg/kafka"
	"assistant-go/pkg/llm"
	"assistant-go/pkg/log"
	"assistant-go/pkg/storage"
	"assistant-go/pkg/tika"
	"assistant-go/pkg/token"
)

func main() {
	// 1. Configuration
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Logger
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	// 3. Datastores and external services
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Fatalf("failed to initialise Elasticsearch: %v", err)
	}
	kafka.InitProducers(cfg.Kafka)

	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.Message{},
		&model.Person{},
		&model.Task{},
		&model.Note{},
		&model.CalendarEvent{},
		&model.InboxItem{},
	); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(database.DB)
	convRepo := repository.NewConversationRepository(database.DB)
	taskRepo := repository.NewTaskRepository(database.DB, database.RDB)
	personRepo := repository.NewPersonRepository(database.DB)
	noteRepo := repository.NewNoteRepository(database.DB)
	calendarRepo := repository.NewCalendarRepository(database.DB)
	inboxRepo := repository.NewInboxRepository(database.DB)

	// 5. Services (dependency injection)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	tikaClient := tika.NewClient(cfg.Tika)
	llmClient := llm.NewClient(cfg.LLM)

	monitorSink := events.NewRingSink(200)
	emitter := events.Multi{monitorSink, kafka.NewEventEmitter()}

	userService := service.NewUserService(userRepo, jwtManager, database.RDB)
	taskService := service.NewTaskService(taskRepo, personRepo)
	personService := service.NewPersonService(personRepo)
	noteService := service.NewNoteService(noteRepo)
	calendarService := service.NewCalendarService(calendarRepo)
	inboxService := service.NewInboxService(inboxRepo, emitter)
	conversationService := service.NewConversationService(
		convRepo, taskService, calendarService, personService,
		llmClient, emitter, cfg.Assistant,
	)

	// 6. Scan processing pipeline
	processor := pipeline.NewProcessor(inboxRepo, tikaClient, emitter)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7. Router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.Logging(), gin.Recovery())

	userHandler := handler.NewUserHandler(userService)
	convHandler := handler.NewConversationHandler(conversationService)
	taskHandler := handler.NewTaskHandler(taskService)
	personHandler := handler.NewPersonHandler(personService)
	noteHandler := handler.NewNoteHandler(noteService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	inboxHandler := handler.NewInboxHandler(inboxService)
	monitorHandler := handler.NewMonitorHandler(monitorSink)
	chatHandler := handler.NewChatHandler(conversationService, userService, jwtManager)
	healthHandler := handler.NewHealthHandler(database.DB)

	r.GET("/health", healthHandler.Live)
	r.GET("/health/db", healthHandler.Database)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/users/register", userHandler.Register)
		apiV1.POST("/users/login", userHandler.Login)
		apiV1.POST("/auth/refreshToken", userHandler.Refresh)

		authed := apiV1.Group("/")
		authed.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			authed.GET("/users/me", userHandler.Profile)
			authed.POST("/users/logout", userHandler.Logout)

			conversations := authed.Group("/conversations")
			{
				conversations.POST("", convHandler.Create)
				conversations.GET("", convHandler.List)
				conversations.GET("/:id", convHandler.Get)
				conversations.DELETE("/:id", convHandler.Delete)
				conversations.GET("/:id/messages", convHandler.Messages)
				conversations.POST("/:id/messages", convHandler.Send)
				conversations.POST("/:id/messages/stream", convHandler.SendStream)
				conversations.POST("/:id/generate-title", convHandler.GenerateTitle)
			}

			tasks := authed.Group("/tasks")
			{
				tasks.POST("", taskHandler.Create)
				tasks.GET("", taskHandler.List)
				tasks.GET("/search", taskHandler.Search)
				tasks.GET("/:id", taskHandler.Get)
				tasks.PUT("/:id", taskHandler.Update)
				tasks.PUT("/:id/status", taskHandler.UpdateStatus)
				tasks.PUT("/:id/delegate", taskHandler.Delegate)
				tasks.DELETE("/:id", taskHandler.Delete)
			}

			persons := authed.Group("/persons")
			{
				persons.POST("", personHandler.Create)
				persons.GET("", personHandler.List)
				persons.GET("/:id", personHandler.Get)
				persons.PUT("/:id", personHandler.Update)
				persons.DELETE("/:id", personHandler.Delete)
			}

			notes := authed.Group("/notes")
			{
				notes.POST("", noteHandler.Create)
				notes.GET("", noteHandler.List)
				notes.GET("/search", noteHandler.Search)
				notes.GET("/:id", noteHandler.Get)
				notes.PUT("/:id", noteHandler.Update)
				notes.DELETE("/:id", noteHandler.Delete)
			}

			calendar := authed.Group("/calendar/events")
			{
				calendar.POST("", calendarHandler.Create)
				calendar.GET("", calendarHandler.List)
				calendar.GET("/:id", calendarHandler.Get)
				calendar.PUT("/:id", calendarHandler.Update)
				calendar.DELETE("/:id", calendarHandler.Delete)
			}

			inbox := authed.Group("/inbox")
			{
				inbox.POST("/scan", inboxHandler.Upload)
				inbox.GET("", inboxHandler.List)
				inbox.GET("/:id", inboxHandler.Get)
				inbox.GET("/:id/download", inboxHandler.DownloadURL)
				inbox.DELETE("/:id", inboxHandler.Delete)
			}

			authed.GET("/monitor/events", monitorHandler.Recent)
			authed.POST("/monitor/clear", monitorHandler.Clear)
		}
	}

	// WebSocket endpoint, token auth via the path parameter.
	r.GET("/chat/:token", chatHandler.Serve)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Info("server stopped")
}
