package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-tools-mcp/internal/editor"
	"github.com/ironsheep/pixel-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// EnvLogLevel selects development logging when set to "debug".
const EnvLogLevel = "PIXEL_MCP_LOG_LEVEL"

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixel-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixel-tools-mcp - MCP server for pixel-art editing")
			fmt.Println()
			fmt.Println("Usage: pixel-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PIXEL_MCP_LOG_LEVEL=debug          Enable debug logging")
			fmt.Println("  PIXEL_MCP_MAX_HISTORY=<n>          Undo steps kept per document (default 256)")
			fmt.Println("  PIXEL_MCP_TRANSPARENT_SLOT=<n>     Palette slot of the transparent color (default 0)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	log, err := newLogger(os.Getenv(EnvLogLevel) == "debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	edCfg, err := editor.ConfigFromEnv()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Debug("starting",
		zap.String("version", Version),
		zap.String("built", BuildTime),
		zap.String("commit", GitCommit),
		zap.Int("max_history", edCfg.MaxHistory),
		zap.Int("transparent_slot", edCfg.TransparentSlot))

	srv := server.New(server.Config{Version: Version, Editor: edCfg}, log)
	if err := srv.Run(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// newLogger builds a logger writing to stderr; stdout carries the protocol.
func newLogger(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
