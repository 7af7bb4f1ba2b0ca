package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/toshikazuyokoi/process-interview-backend/internal/app"
	"github.com/toshikazuyokoi/process-interview-backend/internal/observability"
	"github.com/toshikazuyokoi/process-interview-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	shutdown := observability.InitOTel(context.Background(), a.Log, observability.OtelConfig{
		ServiceName: "process-interview-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdown != nil {
		defer shutdown(context.Background())
	}

	if err := a.Start(); err != nil {
		a.Log.Fatal("Failed to start background workers", "error", err)
	}

	port := utils.GetEnv("PORT", "8080", a.Log)
	a.Log.Info("Server listening", "port", port)
	if err := a.Run(":" + port); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
