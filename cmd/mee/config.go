package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Bind command-line flags
	pflag.String("data-dir", ".", "Directory the shell reads .ndjson sources from")
	pflag.StringP("execute", "e", "", "Execute one statement and exit")
	pflag.String("file", "", "Execute statements from a file and exit")
	pflag.String("format", "table", "Output format: table or json")
	pflag.Bool("no-color", false, "Disable ANSI colors")
	pflag.String("config", "", "Path to the configuration file")
	pflag.String("s3-access-key", "", "Access key for s3:// sources")
	pflag.String("s3-secret-key", "", "Secret key for s3:// sources")
	pflag.String("s3-region", "", "Region for s3:// sources")
	pflag.String("s3-endpoint", "", "Custom endpoint for S3-compatible services")

	f := pflag.CommandLine
	normalizeFunc := f.GetNormalizeFunc()
	f.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "_")
		return pflag.NormalizedName(name)
	})
}

// Config holds every knob the shell accepts, from flags, MEE_* environment
// variables or a configuration file.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	Execute     string `mapstructure:"execute"`
	File        string `mapstructure:"file"`
	Format      string `mapstructure:"format"`
	NoColor     bool   `mapstructure:"no_color"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
}

func LoadConfig() (Config, error) {
	// Set default values
	viper.SetDefault("data_dir", ".")
	viper.SetDefault("format", "table")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Parse command-line flags
	pflag.Parse()

	// Bind command-line flags to Viper
	viper.BindPFlags(pflag.CommandLine)

	// Bind environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("MEE")

	// Read configuration file if specified
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("mee.conf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	// Unmarshal configuration into struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if cfg.Format != "table" && cfg.Format != "json" {
		return Config{}, fmt.Errorf("unknown output format: %s", cfg.Format)
	}

	return cfg, nil
}
