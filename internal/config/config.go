package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMaxActiveTasks = 3
	defaultPollInterval   = 2 * time.Second
)

type Config struct {
	LogMode        string
	ServerPort     string
	BackendURL     string
	MaxActiveTasks int
	PollInterval   time.Duration
}

func checkEnv(envVars []string) error {
	var missingVars []string

	for _, envVar := range envVars {
		if value, exists := os.LookupEnv(envVar); !exists || value == "" {
			missingVars = append(missingVars, envVar)
		}
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("error: this env vars are missing: %v", missingVars)
	}

	return nil
}

func validateEnv() error {
	return checkEnv([]string{
		"LOG_MODE",
		"SERVER_PORT",
		"BACKEND_URL",
	})
}

func LoadConfig(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load configuration file: %w", err)
		}
	}

	if err := validateEnv(); err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}

	cfg := &Config{
		LogMode:        os.Getenv("LOG_MODE"),
		ServerPort:     os.Getenv("SERVER_PORT"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		MaxActiveTasks: defaultMaxActiveTasks,
		PollInterval:   defaultPollInterval,
	}

	if raw := os.Getenv("MAX_ACTIVE_TASKS"); raw != "" {
		maxTasks, err := strconv.Atoi(raw)
		if err != nil || maxTasks <= 0 {
			return nil, fmt.Errorf("LoadConfig: invalid MAX_ACTIVE_TASKS value: %q", raw)
		}
		cfg.MaxActiveTasks = maxTasks
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			return nil, fmt.Errorf("LoadConfig: invalid POLL_INTERVAL value: %q", raw)
		}
		cfg.PollInterval = interval
	}

	return cfg, nil
}
