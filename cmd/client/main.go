package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cats-service/internal/client"
	"cats-service/internal/client/state"
	"cats-service/internal/config"
	"cats-service/internal/model"
)

const (
	configFile = "config.yml"

	defaultServerURL      = "http://localhost:8080"
	defaultRequestTimeout = 10 * time.Second
)

func main() {
	// Загружаем конфигурацию из файла
	appConfig, err := config.InitConfig[config.Config](configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	serverURL, requestTimeout := clientSettings(appConfig.Client)
	log.Printf("Using Cats Service at %s", serverURL)

	gateway := client.New(serverURL, requestTimeout)
	controller := state.NewController(gateway)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Выбираем сценарий через переменную окружения или аргумент
	scenario := os.Getenv("SCENARIO")
	if scenario == "" && len(os.Args) > 1 {
		scenario = os.Args[1]
	}

	switch scenario {
	case "invalid":
		// Отправка заведомо невалидного кандидата
		runInvalidSubmission(ctx, controller)
	case "events", "stream":
		// Подписка на поток созданных котов
		runWatchEvents(gateway)
	case "success", "":
		// По умолчанию: список, успешное создание, навигация, список
		runSuccessfulSubmission(ctx, controller)
	default:
		log.Println("Available scenarios: success, invalid, events")
		log.Println("Usage: SCENARIO=success go run ./cmd/client OR go run ./cmd/client success")
	}
}

// clientSettings возвращает адрес сервера и таймаут запросов из секции client
// конфигурации. Переменная окружения SERVER_URL имеет приоритет над файлом,
// отсутствующие значения заменяются дефолтами.
func clientSettings(cfg *config.ConfigClient) (string, time.Duration) {
	serverURL := defaultServerURL
	requestTimeout := defaultRequestTimeout

	if cfg != nil {
		if cfg.BaseURL != "" {
			serverURL = cfg.BaseURL
		}
		if cfg.RequestTimeout > 0 {
			requestTimeout = time.Duration(cfg.RequestTimeout) * time.Second
		}
	}

	if env := os.Getenv("SERVER_URL"); env != "" {
		serverURL = env
	}

	return serverURL, requestTimeout
}

// runSuccessfulSubmission показывает полный цикл: загрузка списка,
// успешное создание и навигацию по одноразовому флагу успеха
func runSuccessfulSubmission(ctx context.Context, controller *state.Controller) {
	log.Println("\n=== Testing Successful Submission ===")

	if err := controller.Refresh(ctx); err != nil {
		log.Fatalf("Failed to fetch cats: %v", err)
	}
	printCats("Cats before submission", controller.Entities())

	notes := "Walks in the park"
	candidate := model.CatCandidate{
		Name:  strPtr("Felix"),
		Age:   json.RawMessage("2"),
		Notes: &notes,
	}

	if err := controller.Submit(ctx, candidate); err != nil {
		log.Fatalf("Submission failed: %v", err)
	}

	// Навигация только по подтвержденному успеху, а не по завершению запроса
	if controller.LastWriteSucceeded() {
		log.Println("✅ Write confirmed by server, navigating to cat list...")
	} else {
		log.Printf("❌ Write rejected: %v", controller.FieldErrors())
		return
	}

	if err := controller.Refresh(ctx); err != nil {
		log.Fatalf("Failed to refresh cats: %v", err)
	}
	printCats("Cats after submission", controller.Entities())
}

// runInvalidSubmission показывает структурированный отказ:
// кандидат без имени и с короткими заметками
func runInvalidSubmission(ctx context.Context, controller *state.Controller) {
	log.Println("\n=== Testing Validation Failure ===")

	candidate := model.CatCandidate{
		Age:   json.RawMessage("4"),
		Notes: strPtr("short"),
	}

	if err := controller.Submit(ctx, candidate); err != nil {
		log.Fatalf("Submission failed: %v", err)
	}

	if controller.LastWriteSucceeded() {
		log.Fatal("Unexpected success for invalid candidate")
	}

	log.Printf("✅ Correctly rejected (phase: %s)", controller.Phase())
	for field, messages := range controller.FieldErrors() {
		for _, message := range messages {
			fmt.Printf("  📝 %s %s\n", field, message)
		}
	}
}

// runWatchEvents подписывается на поток созданных котов и печатает их
// до получения сигнала завершения
func runWatchEvents(gateway *client.Client) {
	log.Println("\n=== Watching Created Cats ===")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	events, err := gateway.WatchEvents(ctx)
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Println("Subscribed, waiting for events (Ctrl+C to stop)...")
	for cat := range events {
		log.Printf("🐱 Created: #%d %s (age %d)", cat.ID, cat.Name, cat.Age)
	}

	log.Println("Event stream closed")
}

func printCats(header string, cats []model.Cat) {
	log.Printf("%s (%d):", header, len(cats))
	for _, cat := range cats {
		notes := ""
		if cat.Notes != nil {
			notes = " - " + *cat.Notes
		}
		fmt.Printf("  #%d %s, age %d%s\n", cat.ID, cat.Name, cat.Age, notes)
	}
}

func strPtr(s string) *string {
	return &s
}
