package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"taskboard/internal/app"
	"taskboard/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("загрузка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		log.Fatalf("инициализация приложения: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("остановка с ошибкой: %v", err)
	}
}
