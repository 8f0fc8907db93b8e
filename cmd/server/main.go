package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/campusmess/foodcourt/internal/adapter/handler"
	"github.com/campusmess/foodcourt/internal/adapter/storage"
	"github.com/campusmess/foodcourt/internal/core/service"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultMySQLDSN     = "root:root@tcp(localhost:3306)/foodcourt?parseTime=true"
	defaultRedisAddr    = "localhost:6379"
	defaultTicketPrefix = "MM"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpAddr := envOr("HTTP_ADDR", defaultHTTPAddr)
	mysqlDSN := envOr("MYSQL_DSN", defaultMySQLDSN)
	redisAddr := envOr("REDIS_ADDR", defaultRedisAddr)
	ticketPrefix := envOr("TICKET_PREFIX", defaultTicketPrefix)

	// Initialize MySQL
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize adapters and service
	counterAdapter := storage.NewRedisCounterAdapter(rdb)
	orderAdapter := storage.NewMySQLAdapter(db)
	cartAdapter := storage.NewMySQLCartAdapter(db)
	orderService := service.NewOrderService(orderAdapter, cartAdapter, counterAdapter, ticketPrefix)

	// Initialize HTTP server
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	httpHandler := handler.NewHTTPHandler(orderService)
	httpHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
