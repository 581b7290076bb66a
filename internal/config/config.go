package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeBatch  = "batch"
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Output formats
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatBoth = "both"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultFormat      = FormatCSV
	DefaultOutput      = "output"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "BORDEREAU"
)

// Config holds all configuration for the bordereau extractor
type Config struct {
	// Run mode: batch extraction or MCP server
	Mode string
	Host string
	Port int

	// Input and output
	InputDirectory  string
	OutputDirectory string
	Format          string
	Global          bool
	ProfilePath     string
	Paths           []string // positional arguments of batch mode

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeBatch,
		Host:            DefaultHost,
		Port:            DefaultPort,
		InputDirectory:  currentDir,
		OutputDirectory: DefaultOutput,
		Format:          DefaultFormat,
		Global:          false,
		Version:         "1.0.0",
		ServerName:      "bordereau-extract",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Paths = pflag.Args()

	// Expand paths if needed
	if cfg.InputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.InputDirectory); err == nil {
			cfg.InputDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.InputDirectory)
	viper.SetDefault("out", cfg.OutputDirectory)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("global", cfg.Global)
	viper.SetDefault("profile", cfg.ProfilePath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' to extract files, 'stdio' or 'server' for the MCP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.InputDirectory, "Directory containing PDF files")
	pflag.String("out", cfg.OutputDirectory, "Directory receiving the extracted files")
	pflag.String("format", cfg.Format, "Output format (csv, xlsx, both)")
	pflag.Bool("global", cfg.Global, "Also write one consolidated CSV for the whole batch")
	pflag.String("profile", cfg.ProfilePath, "YAML profile with categories, cleaning rules and filters")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "out", "format", "global", "profile", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nBordereau extract - extracts CAP bordereau tables from PDF files\n\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <file.pdf|directory>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cap_mars.pdf                            "+
			"# extract one file into ./output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --format=both --global /path/to/pdfs    "+
			"# CSV and XLSX per file plus a consolidated CSV\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs        # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # MCP server over SSE\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_DIR         PDF directory\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_OUT         Output directory\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_FORMAT      Output format\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_GLOBAL      Write the consolidated CSV\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_PROFILE     Profile file\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  BORDEREAU_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.InputDirectory = viper.GetString("dir")
	cfg.OutputDirectory = viper.GetString("out")
	cfg.Format = viper.GetString("format")
	cfg.Global = viper.GetBool("global")
	cfg.ProfilePath = viper.GetString("profile")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeBatch && c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be one of 'batch', 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.InputDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// The MCP server roots every path at the PDF directory, create it if missing
	if c.Mode != ModeBatch {
		if _, err := os.Stat(c.InputDirectory); os.IsNotExist(err) {
			if err := os.MkdirAll(c.InputDirectory, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create PDF directory %s: %w", c.InputDirectory, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.InputDirectory, err)
		}
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.Format != FormatCSV && c.Format != FormatXLSX && c.Format != FormatBoth {
		return fmt.Errorf("invalid output format: %s (must be one of: csv, xlsx, both)", c.Format)
	}

	if c.ProfilePath != "" {
		if _, err := os.Stat(c.ProfilePath); err != nil {
			return fmt.Errorf("cannot access profile %s: %w", c.ProfilePath, err)
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, InputDirectory: %s, OutputDirectory: %s, "+
		"Format: %s, Global: %t, Profile: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.InputDirectory, c.OutputDirectory,
		c.Format, c.Global, c.ProfilePath, c.LogLevel, c.MaxFileSize)
}

// IsBatchMode returns true if the binary extracts files and exits
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
