package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendJSONFile = "jsonfile"
)

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL string
}

// JSONFileConfig хранит конфигурацию файлового хранилища снапшотов
type JSONFileConfig struct {
	DataDir string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL     string
	Enabled bool
}

type RESTconfig struct {
	PORT string
}

// CollectorConfig хранит параметры сбора объявлений Naver Land
type CollectorConfig struct {
	BaseURL         string
	ComplexIDs      []string
	TradeType       string
	IntervalMinutes int
	MaxPages        int
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName        string
	StorageBackend string
	Database       DBconfig
	JSONFile       JSONFileConfig
	RabbitMQ       RabbitMQConfig
	Rest           RESTconfig
	Collector      CollectorConfig
	FluentBit      FluentBitConfig
	StdoutLogger   StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		// Не фатально: в Docker конфигурация приходит через окружение.
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "naver-land-collector")

	// Выбор бэкенда хранилища снапшотов
	cfg.StorageBackend = getEnvAsString("STORAGE_BACKEND", StorageBackendJSONFile)
	switch cfg.StorageBackend {
	case StorageBackendPostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required when STORAGE_BACKEND=postgres")
		}
	case StorageBackendJSONFile:
		cfg.JSONFile.DataDir = getEnvAsString("DATA_DIR", "./data")
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %q (expected %q or %q)",
			cfg.StorageBackend, StorageBackendPostgres, StorageBackendJSONFile)
	}

	// Читаем конфигурацию для RabbitMQ
	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			log.Println("WARNING: RABBITMQ_ENABLED is true, but RABBITMQ_URL is not set. Disabling RabbitMQ.")
			cfg.RabbitMQ.Enabled = false
		}
	}

	// Читаем конфигурацию для REST
	cfg.Rest.PORT = getEnvAsString("PORT", "8080")

	// Параметры сборщика
	cfg.Collector.BaseURL = getEnvAsString("NAVER_BASE_URL", "https://m.land.naver.com/complex/getComplexArticleList")
	cfg.Collector.TradeType = getEnvAsString("TRADE_TYPE", "A1")
	cfg.Collector.IntervalMinutes = getEnvAsInt("COLLECT_INTERVAL_MINUTES", 0)
	cfg.Collector.MaxPages = getEnvAsInt("MAX_PAGES", 5)

	if rawIDs := os.Getenv("COMPLEX_IDS"); rawIDs != "" {
		for _, id := range strings.Split(rawIDs, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				cfg.Collector.ComplexIDs = append(cfg.Collector.ComplexIDs, id)
			}
		}
	}
	if cfg.Collector.IntervalMinutes > 0 && len(cfg.Collector.ComplexIDs) == 0 {
		return nil, fmt.Errorf("COMPLEX_IDS environment variable is required when COLLECT_INTERVAL_MINUTES > 0")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
