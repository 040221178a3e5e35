// Package besconfig assembles server configuration from flags, environment variables,
// and an optional YAML file, the same three-source precedence the teacher's config
// package layers env-var getters to provide, generalized here with a YAML file as the
// lowest-precedence layer beneath flags and env.
package besconfig

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	besconfigEnv "github.com/blade-bes/besd/internal/config"
)

// Config is every tunable the ingest server reads at startup.
type Config struct {
	GRPCAddr  string `yaml:"grpc_addr"`
	AdminAddr string `yaml:"admin_addr"`
	StoreURI  string `yaml:"store_uri"`

	SessionLockTime time.Duration `yaml:"session_lock_time"`
	RetentionWindow time.Duration `yaml:"retention_window"`

	MaxRecvMessageBytes int `yaml:"max_recv_message_bytes"`

	LogLevel  slog.Level `yaml:"-"`
	LogFormat string     `yaml:"log_format"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	PrintEventPattern string `yaml:"print_event_pattern"`

	AdminAuthTokenHash string `yaml:"-"`
}

// Default returns the configuration every value falls back to absent any flag, env
// var, or config file entry.
func Default() Config {
	return Config{
		GRPCAddr:             "[::]:50332",
		AdminAddr:            "[::]:3001",
		StoreURI:             "sqlite://besd.db",
		SessionLockTime:      5 * time.Minute,
		RetentionWindow:      0,
		MaxRecvMessageBytes:  10 * 1024 * 1024,
		LogLevel:             slog.LevelInfo,
		LogFormat:            "json",
		KafkaTopic:           "bes-events",
		PrintEventPattern:    "",
	}
}

// Load parses args against a fresh FlagSet, applying (in increasing precedence) the
// built-in defaults, an optional --config YAML file, environment variables, and
// explicit flags.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("besd", flag.ContinueOnError)
	configPath := fs.String("config", besconfigEnv.GetEnvStr("BESD_CONFIG", ""), "path to a YAML config file")
	grpcAddr := fs.String("grpc_addr", "", "address the BES gRPC server listens on")
	adminAddr := fs.String("admin_addr", "", "address the admin HTTP server listens on")
	storeURI := fs.String("store_uri", "", "sqlite:// or postgres:// connection URI")
	sessionLockTime := fs.Duration("session_lock_time", 0, "grace period before a finished session rejects reconnecting streams")
	retentionWindow := fs.Duration("retention_window", 0, "how long invocations are kept before the retention sweeper deletes them")
	maxRecvBytes := fs.Int("max_recv_message_bytes", 0, "maximum size of a single gRPC message the server will accept")
	logLevel := fs.String("log_level", "", "debug, info, warn, or error")
	logFormat := fs.String("log_format", "", "json or text")
	kafkaBrokers := fs.String("kafka_brokers", "", "comma-separated list of Kafka brokers to mirror events to; empty disables mirroring")
	kafkaTopic := fs.String("kafka_topic", "", "Kafka topic to mirror events to")
	printEventPattern := fs.String("print_event_pattern", "", "regex gating which event payload types get logged verbatim")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		if err := applyYAMLFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.GRPCAddr = besconfigEnv.GetEnvStr("BESD_GRPC_ADDR", cfg.GRPCAddr)
	cfg.AdminAddr = besconfigEnv.GetEnvStr("BESD_ADMIN_ADDR", cfg.AdminAddr)
	cfg.StoreURI = besconfigEnv.GetEnvStr("BESD_STORE_URI", cfg.StoreURI)
	cfg.SessionLockTime = besconfigEnv.GetEnvDuration("BESD_SESSION_LOCK_TIME", cfg.SessionLockTime)
	cfg.RetentionWindow = besconfigEnv.GetEnvDuration("BESD_RETENTION_WINDOW", cfg.RetentionWindow)
	cfg.MaxRecvMessageBytes = besconfigEnv.GetEnvInt("BESD_MAX_RECV_MESSAGE_BYTES", cfg.MaxRecvMessageBytes)
	cfg.LogLevel = besconfigEnv.GetEnvLogLevel("BESD_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = besconfigEnv.GetEnvStr("BESD_LOG_FORMAT", cfg.LogFormat)
	cfg.KafkaTopic = besconfigEnv.GetEnvStr("BESD_KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.PrintEventPattern = besconfigEnv.GetEnvStr("BESD_PRINT_EVENT_PATTERN", cfg.PrintEventPattern)
	cfg.AdminAuthTokenHash = besconfigEnv.GetEnvStr("BESD_ADMIN_AUTH_TOKEN_HASH", cfg.AdminAuthTokenHash)
	if brokers := besconfigEnv.GetEnvStr("BESD_KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = besconfigEnv.ParseCommaSeparatedList(brokers)
	}

	if *grpcAddr != "" {
		cfg.GRPCAddr = *grpcAddr
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}
	if *storeURI != "" {
		cfg.StoreURI = *storeURI
	}
	if *sessionLockTime != 0 {
		cfg.SessionLockTime = *sessionLockTime
	}
	if *retentionWindow != 0 {
		cfg.RetentionWindow = *retentionWindow
	}
	if *maxRecvBytes != 0 {
		cfg.MaxRecvMessageBytes = *maxRecvBytes
	}
	if *logLevel != "" {
		cfg.LogLevel = parseLevelDefault(*logLevel, cfg.LogLevel)
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *kafkaBrokers != "" {
		cfg.KafkaBrokers = besconfigEnv.ParseCommaSeparatedList(*kafkaBrokers)
	}
	if *kafkaTopic != "" {
		cfg.KafkaTopic = *kafkaTopic
	}
	if *printEventPattern != "" {
		cfg.PrintEventPattern = *printEventPattern
	}

	return cfg, nil
}

func parseLevelDefault(s string, fallback slog.Level) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func applyYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("besconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("besconfig: parsing %s: %w", path, err)
	}
	return nil
}
