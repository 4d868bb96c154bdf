package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Шаблон подстановки переменных окружения: ${VAR} или ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnv подставляет значения переменных окружения в строку конфигурации.
// Если переменная не установлена, используется значение после :-.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		if value := os.Getenv(groups[1]); value != "" {
			return value
		}
		if len(groups) > 2 {
			return groups[2]
		}
		return ""
	})
}

// InitConfig читает конфигурационный файл и возвращает экземпляр конфигурации.
// Тип конфигурации передается параметром, поэтому загрузчик не привязан
// к конкретной структуре.
func InitConfig[C any](configFile string) (*C, error) {
	v := viper.New()

	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimLeft(filepath.Ext(configFile), "."))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	// Подставляем переменные окружения и восстанавливаем типы значений:
	// после текстовой подстановки число или boolean иначе остались бы строкой
	for _, key := range v.AllKeys() {
		raw := v.GetString(key)
		if raw == "" {
			continue
		}

		expanded := expandEnv(raw)
		switch {
		case expanded == "true" || expanded == "false":
			b, _ := strconv.ParseBool(expanded)
			v.Set(key, b)
		default:
			if n, err := strconv.Atoi(expanded); err == nil {
				v.Set(key, n)
			} else {
				v.Set(key, expanded)
			}
		}
	}

	cfg := new(C)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return cfg, nil
}
