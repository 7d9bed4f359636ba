package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"inventory/logging"
)

// Load reads .env (if present), then an optional YAML config file, then the
// environment. Environment variables use the INVENTORY_ prefix
// (INVENTORY_SERVER_ADDRESS, ...); the legacy names DATABASE_URL, JWT_SECRET,
// GEMINI_API_KEY and NATS_URL are honored as well.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file loaded, using environment variables")
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return parseConfig(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "72h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")

	v.SetDefault("advisor.gemini_api_key", "")
	v.SetDefault("advisor.model", "gemini-1.5-pro-latest")

	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "inventory")
}

func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		"database.url":           "DATABASE_URL",
		"auth.jwt_secret":        "JWT_SECRET",
		"advisor.gemini_api_key": "GEMINI_API_KEY",
		"events.nats_url":        "NATS_URL",
	}
	for key, env := range legacy {
		prefixed := "INVENTORY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		// BindEnv only errors without a key.
		_ = v.BindEnv(key, prefixed, env)
	}
}

func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
