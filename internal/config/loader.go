package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads the configuration from a YAML file with CORTIVUS_-prefixed
// environment overrides. A missing config file is not an error: defaults plus
// environment variables are enough to run.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.cortivus")
		v.AddConfigPath("/etc/cortivus")
	}

	v.SetEnvPrefix("CORTIVUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandEnvVars(&config)

	return &config, nil
}

// setDefaults applies the defaults for a bare deployment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)

	v.SetDefault("cors.allowed_origin", "https://cortivus.github.io")

	v.SetDefault("llm.model", "minimax-m1")
	v.SetDefault("llm.base_url", "https://api.minimax.chat/v1")
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.base_delay", "2s")
	v.SetDefault("llm.max_delay", "10s")
	v.SetDefault("llm.attempt_timeout", "30s")

	v.SetDefault("retrieval.cache_ttl", "30m")
	v.SetDefault("retrieval.default_mode", "policy")

	v.SetDefault("database.path", "./data/cortivus.db")
}

// expandEnvVars resolves ${VAR} references in secret-bearing fields and falls
// back to the legacy MINIMAX_API_KEY variable. An absent key stays empty:
// the generation client degrades to an apology instead of failing startup.
func expandEnvVars(config *Config) {
	config.LLM.APIKey = os.ExpandEnv(config.LLM.APIKey)
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("MINIMAX_API_KEY")
	}
}
