package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cats-service/internal/config"
	"cats-service/internal/server"
)

const configFile = "config.yml"

func main() {
	// Загружаем конфигурацию из файла
	appConfig, err := config.InitConfig[config.Config](configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	log.Println("Starting Cats Service")

	// Создаем и инициализируем сервер (Repository → Service → Handler)
	srv, err := server.NewServer(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v. Starting graceful shutdown...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Shutdown finished with error: %v", err)
	}

	log.Println("Cats Service stopped")
}
