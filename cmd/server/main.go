package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Tyrowin/roomchat/internal/logging"
	"github.com/Tyrowin/roomchat/internal/server"
)

func main() {
	config, err := server.LoadConfig()
	if err != nil {
		logging.Setup(os.Stderr, "info", "console")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Setup(os.Stderr, config.LogLevel, config.LogFormat)

	log.Info().
		Str("addr", config.Port).
		Int("history", config.HistorySize).
		Dur("login_timeout", config.LoginTimeout).
		Msg("Starting roomchat server...")

	hub := server.NewHub(config)
	go hub.Run()

	httpServer := server.CreateServer(config.Port, server.SetupRoutes(hub))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.StartServer(httpServer)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown requested")
	}

	if err := server.ShutdownServer(httpServer, config.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown incomplete")
	}
	if err := hub.Shutdown(config.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Hub shutdown incomplete")
	}
}
