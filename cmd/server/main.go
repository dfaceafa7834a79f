package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohitm/contact-manager/internal/api"
	"github.com/rohitm/contact-manager/internal/config"
	"github.com/rohitm/contact-manager/internal/contacts"
	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/store"
	"github.com/rohitm/contact-manager/internal/token"
	"github.com/rohitm/contact-manager/internal/users"
)

func main() {
	cfg := config.Load()
	if cfg.TokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET must be set")
	}
	httpx.DevMode = cfg.IsDevelopment()

	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	client, err := store.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDB)

	userStore := store.NewUsers(db)
	contactStore := store.NewContacts(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	if err := contactStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := token.NewService([]byte(cfg.TokenSecret), cfg.TokenTTL)
	userHandler := users.NewHandler(userStore, tokens)
	contactHandler := contacts.NewHandler(contactStore)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(userHandler, contactHandler, tokens),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
