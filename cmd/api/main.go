package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"relay/internal/http/handlers"
	httpapi "relay/internal/http/httpapi"
	"relay/internal/imagegen"
	"relay/internal/infra"
	"relay/internal/remix"
	"relay/internal/storage"
)

func main() {
	// Missing env files are fine; the process environment still applies.
	_ = godotenv.Load(".env", ".env.local")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.HasOpenAIKey() {
		logger.Warn().Msg("OPENAI_API_KEY is not set; /remix will fail until it is configured")
	}

	masks, err := storage.NewMaskStore(cfg.MaskDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise mask store")
	}
	for _, path := range masks.Missing() {
		logger.Warn().Str("path", path).Msg("mask file missing")
	}

	svc := remix.NewService(remix.Options{
		APIKey: cfg.OpenAIAPIKey,
		Fetcher: imagegen.NewHTTPFetcher(imagegen.FetcherOptions{
			Timeout:  cfg.ImageFetchTimeout,
			MaxBytes: cfg.MaxImageBytes,
			Logger:   logger,
		}),
		Masks: masks,
		Editor: imagegen.NewOpenAIClient(imagegen.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIImageModel,
			Size:    cfg.OpenAIImageSize,
			Timeout: cfg.OpenAITimeout,
			Logger:  logger,
		}),
		Logger: logger,
	})

	app := handlers.NewApp(svc, logger)
	router := httpapi.NewRouter(app, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("mask_dir", masks.BasePath()).Msg("remix relay listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
