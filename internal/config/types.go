package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level string `mapstructure:"level"`
}

// ConfigServer настройки HTTP сервера
type ConfigServer struct {
	PortHTTP                int `mapstructure:"port_http"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigGateway настройки внешнего HTTP слоя (CORS и rate limiting)
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

// ConfigStorage настройки хранилища котов
type ConfigStorage struct {
	Driver string `mapstructure:"driver"` // memory или sqlite
	Path   string `mapstructure:"path"`   // путь к файлу базы для sqlite
}

// ConfigClient настройки клиентского шлюза
type ConfigClient struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Server  *ConfigServer  `mapstructure:"server"`
	Gateway *ConfigGateway `mapstructure:"gateway"`
	Storage *ConfigStorage `mapstructure:"storage"`
	Client  *ConfigClient  `mapstructure:"client"`
}
