package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"realty-service/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type DBconfig struct {
	URL      string
	MaxConns int32
}

type RESTconfig struct {
	PORT           string
	PublicBaseURL  string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type MediaConfig struct {
	Root string
}

type RabbitMQConfig struct {
	Enabled           bool
	URL               string
	ReconnectInterval time.Duration
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Rest         RESTconfig
	Media        MediaConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Commission   domain.CommissionTariff
}

// LoadConfig загружает конфигурацию из переменных окружения.
// .env необязателен: без него читается только окружение процесса.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment.\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "realty-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 10))

	cfg.Rest.PORT = getEnvAsString("PORT", "8000")
	cfg.Rest.PublicBaseURL = strings.TrimRight(getEnvAsString("PUBLIC_BASE_URL", ""), "/")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.Rest.RateLimitRPS = getEnvAsFloat("RATE_LIMIT_RPS", 50)
	cfg.Rest.RateLimitBurst = getEnvAsInt("RATE_LIMIT_BURST", 100)

	cfg.Media.Root = getEnvAsString("MEDIA_ROOT", "./media")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
		cfg.RabbitMQ.ReconnectInterval = time.Duration(getEnvAsInt("RABBITMQ_RECONNECT_SECONDS", 5)) * time.Second
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
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.Commission, err = loadCommissionTariff()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadCommissionTariff накладывает COMMISSION_* на тарифы по умолчанию
func loadCommissionTariff() (domain.CommissionTariff, error) {
	tariff := domain.DefaultCommissionTariff()

	seller := make(map[domain.PropertyType]domain.SellerRate, len(tariff.Seller))
	for _, pt := range domain.AllPropertyTypes() {
		rate := tariff.Seller[pt]
		prefix := "COMMISSION_" + strings.ToUpper(string(pt))
		rate.Base = getEnvAsDecimal(prefix+"_BASE", rate.Base)
		rate.Percent = getEnvAsDecimal(prefix+"_PERCENT", rate.Percent)
		seller[pt] = rate
	}
	tariff.Seller = seller
	tariff.BuyerPercent = getEnvAsDecimal("COMMISSION_BUYER_PERCENT", tariff.BuyerPercent)
	tariff.DefaultShare = getEnvAsDecimal("COMMISSION_DEFAULT_SHARE", tariff.DefaultShare)

	if err := tariff.Validate(); err != nil {
		return domain.CommissionTariff{}, fmt.Errorf("invalid COMMISSION_* configuration: %w", err)
	}
	return tariff, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
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

// getEnvAsList - значения через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := decimal.NewFromString(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as decimal: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return value
}
