package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"grievance-service/config"
	"grievance-service/internal/handler"
	"grievance-service/internal/messaging"
	"grievance-service/internal/repository"
	"grievance-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments set the variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig("config/config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Connect to RabbitMQ
	rmq, err := messaging.NewRabbitMQ(
		cfg.RabbitMQ.Host,
		cfg.RabbitMQ.Port,
		cfg.RabbitMQ.User,
		cfg.RabbitMQ.Password,
	)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()
	log.Println("Connected to RabbitMQ")

	// Initialize SSE Hub
	sseHub := messaging.NewSSEHub()
	go sseHub.Run()

	// Initialize repositories
	outboxRepo := repository.NewOutboxRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	complaintRepo := repository.NewComplaintRepository(db, sequenceRepo, outboxRepo)
	updateRepo := repository.NewUpdateRepository(db, outboxRepo)

	// Start outbox worker
	outboxWorker := messaging.NewOutboxWorker(outboxRepo, rmq)
	outboxWorker.Start()
	defer outboxWorker.Stop()

	// Start update consumer
	consumer := messaging.NewUpdateConsumer(rmq, updateRepo, sseHub)
	consumer.Start()
	defer consumer.Stop()
	log.Println("Update consumer started")

	// Initialize services
	complaintService := service.NewComplaintService(complaintRepo)
	updateService := service.NewUpdateService(updateRepo, complaintRepo)

	// Initialize handlers
	complaintHandler := handler.NewComplaintHandler(complaintService, cfg.JWT.Secret)
	updateHandler := handler.NewUpdateHandler(updateService, sseHub, cfg.JWT.Secret)

	// Setup Gin
	r := gin.Default()

	// Health check
	r.GET("/health", complaintHandler.Health)

	// Public endpoints
	r.GET("/categories", complaintHandler.GetCategories)
	r.GET("/stats/categories", complaintHandler.GetCategoryStats)

	// Complaint routes
	complaints := r.Group("/complaints")
	{
		complaints.POST("", complaintHandler.CreateComplaint)
		complaints.GET("", complaintHandler.ListComplaints)
		complaints.GET("/:id", complaintHandler.GetComplaint)
		complaints.GET("/:id/timeline", complaintHandler.GetTimeline)
		complaints.PATCH("/:id/status", complaintHandler.UpdateStatus)

		complaints.GET("/:id/updates", updateHandler.GetUpdates)
		complaints.POST("/:id/updates", updateHandler.PostUpdate)
		complaints.GET("/:id/stream", updateHandler.StreamUpdates)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Grievance service starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
