package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	ListenAddr      string
	DatabaseURL     string
	ReminderWorkers int
	OpenAIKey       string
	OpenAIModel     string
	QuestionBank    string
	QuestionCount   int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment. A missing DATABASE_URL is
// not an error; the caller falls back to the local sqlite file.
func Load() (Config, error) {
	// Local convenience; absence is fine.
	_ = godotenv.Load()

	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ReminderWorkers: getenvInt("REMINDER_WORKERS", 1),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getenv("OPENAI_MODEL", "gpt-4o-mini"),
		QuestionBank:    os.Getenv("QUESTION_BANK_PATH"),
		QuestionCount:   getenvInt("QUESTION_COUNT", 5),
	}
	if cfg.QuestionCount < 1 {
		return cfg, fmt.Errorf("QUESTION_COUNT must be positive")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}
