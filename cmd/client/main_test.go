package main

import (
	"testing"
	"time"

	"cats-service/internal/config"
)

func TestClientSettings_FromConfig(t *testing.T) {
	cfg := &config.ConfigClient{
		BaseURL:        "http://cats.example:9090",
		RequestTimeout: 3,
	}

	serverURL, requestTimeout := clientSettings(cfg)

	if serverURL != "http://cats.example:9090" {
		t.Errorf("Expected base URL from config, got %q", serverURL)
	}
	if requestTimeout != 3*time.Second {
		t.Errorf("Expected timeout 3s from config, got %v", requestTimeout)
	}
}

func TestClientSettings_Defaults(t *testing.T) {
	serverURL, requestTimeout := clientSettings(nil)

	if serverURL != defaultServerURL {
		t.Errorf("Expected default server URL, got %q", serverURL)
	}
	if requestTimeout != defaultRequestTimeout {
		t.Errorf("Expected default timeout, got %v", requestTimeout)
	}

	// Пустая секция тоже означает дефолты
	serverURL, requestTimeout = clientSettings(&config.ConfigClient{})
	if serverURL != defaultServerURL || requestTimeout != defaultRequestTimeout {
		t.Errorf("Expected defaults for empty section, got %q, %v", serverURL, requestTimeout)
	}
}

func TestClientSettings_EnvOverridesConfig(t *testing.T) {
	t.Setenv("SERVER_URL", "http://override.example:8081")

	cfg := &config.ConfigClient{BaseURL: "http://cats.example:9090"}

	serverURL, _ := clientSettings(cfg)
	if serverURL != "http://override.example:8081" {
		t.Errorf("Expected environment to override config, got %q", serverURL)
	}
}
