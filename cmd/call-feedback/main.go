package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"kastelo.dev/calllog"
	"kastelo.dev/calllog/feedback"
)

func main() {
	listen := kingpin.Flag("listen", "Address to serve the form on").Default("localhost:8501").String()
	model := kingpin.Flag("model", "Model used for feedback generation").Default(feedback.DefaultModel).String()
	envFile := kingpin.Flag("env-file", "Environment file holding GOOGLE_API_KEY").Default(".env").String()
	debug := kingpin.Flag("debug", "Enable debug logging").Bool()
	kingpin.Parse()

	log, err := calllog.NewLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Loading environment file", zap.String("file", *envFile), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := &feedback.Generator{Log: log}
	backend, err := feedback.NewGenAIBackend(ctx, os.Getenv("GOOGLE_API_KEY"), *model)
	switch {
	case errors.Is(err, feedback.ErrNoAPIKey):
		log.Warn("GOOGLE_API_KEY is not set, analysis disabled")
	case err != nil:
		log.Fatal("Creating model client", zap.Error(err))
	default:
		gen.Backend = backend
	}

	srv := &http.Server{
		Addr:              *listen,
		Handler:           feedback.NewServer(gen, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info("Listening", zap.String("addr", "http://"+*listen), zap.String("model", *model))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Serving", zap.Error(err))
	}
}
