package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cats-service/internal/api/http/middleware"
	"cats-service/internal/api/rest"
	"cats-service/internal/config"
	"cats-service/internal/repository"
	"cats-service/internal/repository/memory"
	"cats-service/internal/repository/sqlite"
	catsService "cats-service/internal/service/cats"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server представляет HTTP сервер приложения
type Server struct {
	HTTPServer *http.Server
	Config     *config.Config

	// Закрывается при shutdown (SQLite-хранилище)
	storeCloser io.Closer
}

// NewServer создает и инициализирует новый экземпляр сервера:
// Repository → Service → Handler, цепочка middleware, CORS.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg.Server == nil {
		cfg.Server = &config.ConfigServer{}
	}
	if cfg.Gateway == nil {
		cfg.Gateway = &config.ConfigGateway{}
	}

	httpPort := cfg.Server.PortHTTP
	if httpPort == 0 {
		httpPort = 8080
		log.Printf("⚠️  Warning: PortHTTP is 0, using default 8080")
	}
	httpAddr := "0.0.0.0:" + strconv.Itoa(httpPort)

	log.Printf("📋 Config loaded: HTTP port=%d, storage=%s", httpPort, storageDriver(cfg))

	// Инициализация компонентов (DI): Repository → Service → Handler
	catRepo, storeCloser, err := newRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}

	events := catsService.NewEventService()
	log.Println("Initialized cat event service")

	catSvc := catsService.NewCatService(catRepo, events)
	log.Println("Initialized cat service")

	catHandler := rest.NewHandler(catSvc, events)
	log.Println("Initialized HTTP handler")

	// Явная регистрация маршрутов
	mux := http.NewServeMux()
	catHandler.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Применение middleware (в обратном порядке выполнения):
	// 1. CORS (самый внешний слой)
	// 2. Request ID
	// 3. Logging (логирует все запросы)
	// 4. Metrics (метрики Prometheus)
	// 5. Rate Limiting (ограничивает количество запросов)
	var handler http.Handler = mux
	handler = middleware.RateLimit(handler, cfg.Gateway.RateLimitRPS, cfg.Gateway.RateLimitBurst)
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = setupCORS(cfg.Gateway).Handler(handler)

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.Server.HTTPReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.HTTPWriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.HTTPIdleTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.HTTPReadHeaderTimeout) * time.Second,
	}

	return &Server{
		HTTPServer:  httpServer,
		Config:      cfg,
		storeCloser: storeCloser,
	}, nil
}

// newRepository выбирает реализацию хранилища по конфигурации
func newRepository(cfg *config.ConfigStorage) (repository.CatRepository, io.Closer, error) {
	driver := ""
	if cfg != nil {
		driver = cfg.Driver
	}

	switch driver {
	case "", "memory":
		log.Println("Initialized in-memory repository")
		return memory.NewRepository(), nil, nil
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite repository: %w", err)
		}
		log.Printf("Initialized SQLite repository at %s", cfg.Path)
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %q", driver)
	}
}

func storageDriver(cfg *config.Config) string {
	if cfg.Storage == nil || cfg.Storage.Driver == "" {
		return "memory"
	}
	return cfg.Storage.Driver
}

// Start запускает HTTP сервер в горутине.
// Возвращает канал ошибок для отслеживания ошибок сервера.
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)

	go func() {
		log.Printf("HTTP server listening on %s", s.HTTPServer.Addr)
		if err := s.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown сервера
func (s *Server) Shutdown() error {
	log.Println("Starting graceful shutdown...")

	shutdownTimeout := time.Duration(s.Config.Server.GracefulShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.HTTPServer.Shutdown(ctx)
	if err != nil {
		log.Printf("Graceful shutdown timeout, forcing close...")
		_ = s.HTTPServer.Close()
	} else {
		log.Println("HTTP server stopped gracefully")
	}

	if s.storeCloser != nil {
		if closeErr := s.storeCloser.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	// Убираем пробелы из origins
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Request-Id",
			"X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}
