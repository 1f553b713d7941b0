package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/bac-man/multiplayer-drawing-game/config"
	"github.com/bac-man/multiplayer-drawing-game/game"
	"github.com/bac-man/multiplayer-drawing-game/invite"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func settingsFrom(cfg config.Config) game.Settings {
	return game.Settings{
		RoundDuration:        cfg.RoundDuration,
		IntermissionDuration: cfg.IntermissionDuration,
		MaxBrushWidth:        cfg.MaxBrushWidth,
		BrushCap:             cfg.BrushCap,
		ChatMaxLength:        cfg.ChatMaxLength,
		NameMaxLength:        cfg.NameMaxLength,
		MaxPlayers:           cfg.MaxPlayers,
		StrictInvariants:     cfg.Debug,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// logger setup
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	words, err := game.LoadWords(cfg.WordListPath)
	if err != nil {
		slog.Error("Unable to load a word list", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	room := game.NewRoom(settingsFrom(cfg), game.NewWordDeck(words, nil), game.NewClock())
	go room.GameLoop(ctx)

	gameHandler := game.NewGameHandler(room, cfg.MessageRate, cfg.MessageBurst, cfg.MaxFrameBytes)
	inviteURL := invite.ResolveURL(cfg.InviteURL, cfg.ClientPort)
	inviteHandler := invite.NewHandler(inviteURL)

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", gameHandler.JoinGameHandler)
	r.GET("/status", gameHandler.StatusHandler)
	r.GET("/invite", inviteHandler.URLHandler)
	r.GET("/invite.png", inviteHandler.QRHandler)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()
	slog.Info("WebSocket server listening", "address", cfg.Address(), "invite", inviteURL, "words", len(words))

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	<-room.Done()
}
