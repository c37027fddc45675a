package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from MOTTAGNING_* environment variables; command-line flags
// override it.
type Config struct {
	CasesPath      string `env:"CASES" envDefault:"data/cases.ini"`
	TestsPath      string `env:"TESTS" envDefault:"data/tests.ini"`
	Rewind         string `env:"REWIND" envDefault:"restart"`
	Headless       bool   `env:"HEADLESS"`
	Verbose        bool   `env:"VERBOSE"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"warn"`
	CheckpointPath string `env:"CHECKPOINT"`
	Resume         bool   `env:"RESUME"`

	MCPAddr        string   `env:"MCP_ADDR" envDefault:"127.0.0.1:8765"`
	MCPPath        string   `env:"MCP_PATH" envDefault:"/mcp"`
	MCPToken       string   `env:"MCP_TOKEN"`
	MCPOrigins     []string `env:"MCP_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://127.0.0.1"`
	MCPJSON        bool     `env:"MCP_JSON_RESPONSE"`
	MCPStateless   bool     `env:"MCP_STATELESS"`
	MCPMaxSessions int      `env:"MCP_MAX_SESSIONS" envDefault:"64"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MOTTAGNING_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := ParseRewindMode(cfg.Rewind); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a production zap logger writing to stderr.
func NewLogger(cfg Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
