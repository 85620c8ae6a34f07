// Command main is the entry point for the blog server.
package main

import (
	"context"
	"log"
	"net"
	"os/signal"
	"syscall"
	"time"

	"blog/internal/bootstrap"
	"blog/internal/config"
	"blog/internal/observability"
	"blog/internal/server"
)

// @title Blog API
// @version 1.0
// @description REST API for the blog: users, posts, likes and dislikes

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "blog-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSample,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	store, redisClient, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServer(cfg, store, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		log.Fatalf("Failed to listen on port %s: %v", cfg.Port, err)
	}

	// Run blocks until SIGINT/SIGTERM has drained connections, closed the
	// store and Redis, and flushed pending spans.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	log.Printf("API docs: http://localhost:%s/api/swagger/index.html", cfg.Port)
	err = srv.Run(ctx, ln, 10*time.Second, shutdownTracing)
	stop()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
