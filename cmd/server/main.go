package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"matchtalk/auth"
	"matchtalk/httpapi"
	"matchtalk/moderation"
	"matchtalk/repositories"
	"matchtalk/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and owns the server lifecycle, so that
// deferred cleanup (closing BadgerDB) executes on every exit path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & services
	userRepo := repositories.NewUserRepository(db, log)
	presenceRepo := repositories.NewPresenceRepository(db, log)
	blockRepo := repositories.NewBlockRepository(db, log)
	convRepo := repositories.NewConversationRepository(db, log)
	messageRepo := repositories.NewMessageRepository(db, log)
	typingRepo := repositories.NewTypingRepository(db, log, config.TypingTTL)

	moderator, err := moderation.New(censoredWords(config.CensoredWords), '*')
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}

	tokens := auth.NewTokenManager(config.JWTSecret, config.TokenDuration)
	authService := services.NewAuthService(userRepo, convRepo, messageRepo, typingRepo, blockRepo, tokens, log)
	convService := services.NewConversationService(convRepo, userRepo, log)
	chatService := services.NewChatService(convRepo, messageRepo, userRepo, blockRepo, moderator, config.MessagePageSize, log)
	typingService := services.NewTypingService(convRepo, typingRepo, userRepo, log)
	presenceService := services.NewPresenceService(convRepo, presenceRepo, userRepo, log)
	blockService := services.NewBlockService(blockRepo, userRepo, log)

	server := httpapi.NewServer(
		log, tokens, userRepo,
		authService, convService, chatService,
		typingService, presenceService, blockService,
	)

	// 4. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: httpapi.NewRouter(server),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "address", address)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func censoredWords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}
