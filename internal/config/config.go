package config

import "os"

type Config struct {
	ListenAddr string
	DBPath     string
	ExportPath string
	Username   string
	Password   string
	LogLevel   string
	LogFormat  string
	LogFile    string
	TestMode   bool
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "/data/pantryinv.db"),
		ExportPath: getEnv("EXPORT_PATH", "/data/exports"),
		Username:   getEnv("PANTRY_USERNAME", "pantry"),
		Password:   getEnv("PANTRY_PASSWORD", "pantry"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		LogFile:    getEnv("LOG_FILE", ""),
		TestMode:   os.Getenv("PANTRYINV_TEST_MODE") == "1",
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
