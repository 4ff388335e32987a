package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/blob/s3"
	"github.com/motoreast/rebate-portal/internal/config"
	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/logging"
	"github.com/motoreast/rebate-portal/internal/server"
	"github.com/motoreast/rebate-portal/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	receipts, err := s3.New(ctx, s3.Options{
		Bucket:   cfg.ReceiptBucket,
		Region:   cfg.AWSRegion,
		Endpoint: cfg.AWSEndpointURL,
		BaseURL:  cfg.ReceiptsBaseURL,
	})
	if err != nil {
		log.Fatalf("init receipt storage: %v", err)
	}

	var revoked auth.TokenBlacklist
	if cfg.RedisAddr != "" {
		revoked, err = auth.NewRedisBlacklist(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init redis blacklist: %v", err)
		}
	} else {
		revoked = auth.NewMemoryBlacklist()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	gw := gateway.New(gateway.Deps{
		Users:         store,
		Profiles:      store,
		Claims:        store,
		Condos:        store,
		Registrations: store,
		Receipts:      receipts,
		Tokens:        tokens,
		Revoked:       revoked,
		Logger:        logger,
	})

	srv := server.New(cfg, server.Deps{
		Gateway: gw,
		Tokens:  tokens,
		Revoked: revoked,
		Log:     logger,
	})

	go func() {
		log.Printf("rebate portal listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
