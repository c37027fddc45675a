package main

import "github.com/spf13/cobra"

// bindCatalogFlags registers flags shared by every subcommand. Defaults come
// from cfg, so environment values show up in --help.
func bindCatalogFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.PersistentFlags()
	f.StringVar(&cfg.CasesPath, "cases", cfg.CasesPath, "Case catalog file (.ini or .yaml)")
	f.StringVar(&cfg.TestsPath, "tests", cfg.TestsPath, "Default test catalog file; empty uses the [Tests] of the case file")
	f.StringVar(&cfg.Rewind, "rewind", cfg.Rewind, "Rewind behaviour: restart or previous")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Debug logging")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindPlayFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Read plain lines from stdin instead of a raw terminal")
	f.StringVar(&cfg.CheckpointPath, "checkpoint", cfg.CheckpointPath, "Save the session here after every command")
	f.BoolVar(&cfg.Resume, "resume", cfg.Resume, "Resume from the checkpoint file if it exists")
}

func bindServeFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()
	f.StringVar(&cfg.MCPAddr, "mcp-addr", cfg.MCPAddr, "MCP listen address")
	f.StringVar(&cfg.MCPPath, "mcp-path", cfg.MCPPath, "MCP endpoint path")
	f.StringVar(&cfg.MCPToken, "mcp-token", cfg.MCPToken, "Bearer token for MCP requests (optional)")
	f.StringSliceVar(&cfg.MCPOrigins, "mcp-origin", cfg.MCPOrigins, "Allowed Origin for MCP requests (repeatable)")
	f.BoolVar(&cfg.MCPJSON, "mcp-json-response", cfg.MCPJSON, "Force JSON responses instead of SSE")
	f.BoolVar(&cfg.MCPStateless, "mcp-stateless", cfg.MCPStateless, "Run MCP server in stateless mode (no sessions/SSE)")
	f.IntVar(&cfg.MCPMaxSessions, "mcp-max-sessions", cfg.MCPMaxSessions, "Maximum number of concurrent game sessions; the least recently used is evicted")
}
