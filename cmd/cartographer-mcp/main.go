package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/averycrespi/cartographer-mcp/internal/config"
	"github.com/averycrespi/cartographer-mcp/internal/server"
	"github.com/averycrespi/cartographer-mcp/pkg/project"
)

var (
	flagConfig        string
	flagGoplsPath     string
	flagWorkspaceRoot string
	flagLogLevel      string
	flagWarmupQuery   string
)

var rootCmd = &cobra.Command{
	Use:           project.Name,
	Short:         "MCP server exposing a queryable symbol catalog for a Go workspace",
	Long:          project.Description + ".\n\nThe server speaks MCP over stdio; all logging goes to stderr.",
	Version:       project.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a TOML config file (default: cartographer.toml in the workspace root, if present)")
	rootCmd.Flags().StringVar(&flagGoplsPath, "gopls-path", "", "path to the gopls binary")
	rootCmd.Flags().StringVar(&flagWorkspaceRoot, "workspace-root", "", "root directory of the Go workspace")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flagWarmupQuery, "warmup-query", "", "symbol searched once at startup to prime the engine")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	// Stdout carries the MCP protocol; every log line goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := cfg.Normalize(); err != nil {
		return err
	}

	srv := server.NewCatalogServer(cfg)
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Warn("Shutdown failed", "error", err)
		}
	}()

	return srv.Start(cmd.Context())
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then explicit flags.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if flagConfig != "" {
		loaded, err := config.LoadFile(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	} else if path := implicitConfigPath(); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if flagGoplsPath != "" {
		cfg.GoplsPath = flagGoplsPath
	}
	if flagWorkspaceRoot != "" {
		cfg.WorkspaceRoot = flagWorkspaceRoot
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagWarmupQuery != "" {
		cfg.WarmupQuery = flagWarmupQuery
	}

	return cfg, nil
}

// implicitConfigPath looks for cartographer.toml in the workspace root,
// returning the empty string when there is none
func implicitConfigPath() string {
	root := flagWorkspaceRoot
	if root == "" {
		root = config.Default().WorkspaceRoot
	}

	path := filepath.Join(root, config.FileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
