package config

import (
	"time"

	"github.com/cortivus/chat-api/internal/llm"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	LLM       llm.Config      `mapstructure:"llm"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// CORSConfig configures cross-origin access for the hosted chat widget.
type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// RetrievalConfig configures the keyword retriever and its query cache.
type RetrievalConfig struct {
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	DefaultMode string        `mapstructure:"default_mode"`
}

// DatabaseConfig configures the conversation log store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}
