package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mee "github.com/amonsch/mee-cli"
	"github.com/amonsch/mee-cli/source"
)

// Version is set at build time via -ldflags
var Version = "dev"

func init() {
	// Bind command-line flags
	pflag.Int("port", 7333, "TCP port to listen on")
	pflag.String("data-dir", ".", "Directory the server reads .ndjson sources from")
	pflag.Bool("version", false, "Show version and exit")
	pflag.String("config", "", "Path to the configuration file")
	pflag.Int("max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	pflag.String("tls-cert", "", "TLS certificate file")
	pflag.String("tls-key", "", "TLS key file")
	pflag.String("jwt-secret", "", "Shared secret for JWT authentication (empty disables auth)")
	pflag.String("jwt-issuer", "", "Expected JWT issuer claim")
	pflag.String("jwt-audience", "", "Expected JWT audience claim")
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

// Config holds every knob the server accepts, from flags, MEE_* environment
// variables or a configuration file.
type Config struct {
	Port           int    `mapstructure:"port"`
	DataDir        string `mapstructure:"data_dir"`
	Version        bool   `mapstructure:"version"`
	MaxConnections int    `mapstructure:"max_connections"`
	TLSCert        string `mapstructure:"tls_cert"`
	TLSKey         string `mapstructure:"tls_key"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTIssuer      string `mapstructure:"jwt_issuer"`
	JWTAudience    string `mapstructure:"jwt_audience"`
	S3AccessKey    string `mapstructure:"s3_access_key"`
	S3SecretKey    string `mapstructure:"s3_secret_key"`
	S3Region       string `mapstructure:"s3_region"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`
}

func LoadConfig() (Config, error) {
	// Set default values
	viper.SetDefault("port", 7333)
	viper.SetDefault("data_dir", ".")
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
		viper.SetConfigName("mee-server.conf")
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

	return cfg, nil
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Version {
		fmt.Printf("mee query server v%s\n", Version)
		return
	}

	log.Printf("Serving sources from %s", cfg.DataDir)

	var s3cfg *source.S3Config
	if cfg.S3AccessKey != "" || cfg.S3Region != "" || cfg.S3Endpoint != "" {
		s3cfg = &source.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
		}
	}
	db := mee.Open(source.NewStoreWithS3(osfs.New(cfg.DataDir), s3cfg))

	// Create and start server
	var server *Server
	if cfg.JWTSecret != "" {
		server = NewServerWithAuth(db, &AuthConfig{
			Enabled:   true,
			JWTSecret: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
			Audience:  cfg.JWTAudience,
		})
		log.Println("JWT authentication enabled")
	} else {
		server = NewServer(db)
	}
	server.MaxConnections = cfg.MaxConnections

	addr := fmt.Sprintf(":%d", cfg.Port)
	if cfg.TLSCert != "" || cfg.TLSKey != "" {
		err = server.StartTLS(addr, cfg.TLSCert, cfg.TLSKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   mee query server v%-16s  ║\n", Version)
	fmt.Println("║   Queries for flat JSON files         ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", cfg.Port)
	fmt.Println("Send statements (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
