package utils

import (
	"os"
	"strconv"
	"strings"

	"shopcatalog/pkg/logger"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	TCPSyncAddr string
	GRPCAddr    string
	IOWorkers   int
	CORSOrigins []string
	Logger      logger.Config
}

// LoadConfig reads the environment. Call godotenv.Load first to pick up a
// local .env file.
func LoadConfig() Config {
	cfg := Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		TCPSyncAddr: getEnv("TCP_SYNC_ADDR", ":7070"),
		GRPCAddr:    getEnv("GRPC_ADDR", ":9090"),
		IOWorkers:   getEnvInt("CATALOG_IO_WORKERS", 4),
		CORSOrigins: getEnvSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		Logger: logger.Config{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
	}
	cfg.Logger.Development = cfg.AppEnv == "dev" || cfg.AppEnv == "development"
	if cfg.IOWorkers <= 0 {
		cfg.IOWorkers = 1
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
