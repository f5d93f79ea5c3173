// Package config loads Nexus settings from flags, environment, an optional
// .env file and nexus.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

const (
	configName = "nexus"
	envPrefix  = "NEXUS"
)

// Config is the resolved application configuration.
type Config struct {
	Verbose    bool             `mapstructure:"verbose"`
	JSON       bool             `mapstructure:"json"`
	Data       DataConfig       `mapstructure:"data"`
	Projection ProjectionConfig `mapstructure:"projection"`
	LLM        LLMSettings      `mapstructure:"llm"`
}

// DataConfig locates persisted state.
type DataConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
	DB  string `mapstructure:"db" validate:"required"`
}

// ProjectionConfig bounds recurring-task projection during leave planning.
type ProjectionConfig struct {
	MaxIterations int `mapstructure:"maxIterations" validate:"min=1,max=1000"`
}

// LLMSettings is the file form of the AI settings. Keys are resolved
// separately by ResolveAPIKey.
type LLMSettings struct {
	Provider   string `mapstructure:"provider" validate:"omitempty,oneof=openai ollama anthropic gemini"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"imageModel"`
	BaseURL    string `mapstructure:"baseURL" validate:"omitempty,url"`
}

// Init wires viper to its sources. cfgFile overrides the search paths.
func Init(cfgFile string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("projection.maxIterations", task.DefaultMaxProjections)
	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.imageModel", "gemini-2.5-flash-image")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(LocalDirName)
		if dir, err := GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	slog.Debug("using config file", "path", viper.ConfigFileUsed())
	return nil
}

// Load unmarshals the current viper state and fills in resolved paths.
func Load() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = GetDataDir()
	}
	if cfg.Data.DB == "" {
		cfg.Data.DB = GetDBPath()
	}
	if cfg.Projection.MaxIterations == 0 {
		cfg.Projection.MaxIterations = task.DefaultMaxProjections
	}
	if err := util.ValidateStruct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
