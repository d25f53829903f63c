package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, applies environment overrides and validates it.
// A .env file next to the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides secrets and deployment values from the environment.
func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Storage.Region, "AWS_REGION")
	setString(&c.Storage.Bucket, "S3_BUCKET")
	setString(&c.Storage.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.PublicBaseURL, "S3_PUBLIC_BASE_URL")
	setString(&c.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&c.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.LLM.Gemini.Model, "GEMINI_MODEL")
	setString(&c.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.LLM.DeepSeek.APIKey, "DEEPSEEK_API_KEY")
	setString(&c.LLM.DeepSeek.Model, "DEEPSEEK_MODEL")
	setString(&c.Notify.EmailFrom, "EMAIL_FROM")
	setString(&c.Notify.WebhookURL, "CHAT_WEBHOOK_URL")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Render.CreatedAt, "SOURCE_DATE_EPOCH")

	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" {
		c.LLM.Gemini.APIKeys = splitList(keys)
	}
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
