package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vendalab/salespipe/internal/api"
	"github.com/vendalab/salespipe/internal/engine"
	"github.com/vendalab/salespipe/internal/genai"
	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/session"
	"github.com/vendalab/salespipe/internal/store"
	"github.com/vendalab/salespipe/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for salespipe state data
	DefaultStateDir = "/var/lib/salespipe"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "salespipe.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	client, err := genai.NewClient(buildGenAIOptions(config, flags)...)
	if err != nil {
		slog.Error("Failed to initialize generation client", "error", err)
		os.Exit(1)
	}

	st, err := openStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	kb := knowledge.NewBase()
	sessions := session.NewManager(buildSessionOptions(config)...)
	eng := engine.New(engine.WithGenerator(client), engine.WithKnowledgeBase(kb))

	server := api.NewServer(append(buildAPIOptions(flags),
		api.WithEngine(eng),
		api.WithSessionManager(sessions),
		api.WithKnowledgeBase(kb),
		api.WithStore(st),
	)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartSweeper(ctx)
	defer sessions.Close()

	slog.Info("Bootstrapping salespipe with configured modules")
	slog.Debug("Final configuration", "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)
	if err := server.Run(ctx); err != nil {
		slog.Error("salespipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("salespipe exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL    string
	StateDir       string
	OpenAIKey      string
	OpenAIBaseURL  string
	PrimaryModel   string
	AnalysisModel  string
	APIAddr        string
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	GenAITimeout   time.Duration
	ReplyMaxTokens int
}

// Flags holds command line flag values
type Flags struct {
	stateDir      *string
	dbDSN         *string
	openaiKey     *string
	openaiBaseURL *string
	apiAddr       *string
}

// initializeLogger sets up structured logging. Debug level by default;
// SALESPIPE_DEBUG=false drops to info.
func initializeLogger() {
	level := slog.LevelDebug
	if !util.ParseBoolEnv("SALESPIPE_DEBUG", true) {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StateDir:       os.Getenv("SALESPIPE_STATE_DIR"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		PrimaryModel:   os.Getenv("SALESPIPE_PRIMARY_MODEL"),
		AnalysisModel:  os.Getenv("SALESPIPE_ANALYSIS_MODEL"),
		APIAddr:        os.Getenv("API_ADDR"),
		SessionTTL:     util.ParseDurationEnv("SALESPIPE_SESSION_TTL", session.DefaultTTL),
		SweepInterval:  util.ParseDurationEnv("SALESPIPE_SWEEP_INTERVAL", session.DefaultSweepInterval),
		GenAITimeout:   util.ParseDurationEnv("SALESPIPE_GENAI_TIMEOUT", 0),
		ReplyMaxTokens: util.ParseIntEnv("SALESPIPE_MAX_REPLY_TOKENS", 0),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No SALESPIPE_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"SALESPIPE_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:      flag.String("state-dir", config.StateDir, "state directory for salespipe data (overrides $SALESPIPE_STATE_DIR)"),
		dbDSN:         flag.String("db-dsn", config.DatabaseURL, "database DSN for the transcript store (overrides $DATABASE_URL)"),
		openaiKey:     flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiBaseURL: flag.String("openai-base-url", config.OpenAIBaseURL, "OpenAI-compatible API base URL (overrides $OPENAI_BASE_URL)"),
		apiAddr:       flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr)

	// Keep the SQLite default in step with a state directory override.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if store.DetectDSNType(*flags.dbDSN) != "postgres" {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// openStore constructs the transcript store matching the configured DSN.
func openStore(flags Flags) (store.Store, error) {
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_type", "postgres")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "dsn_type", "sqlite", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildGenAIOptions constructs generation client configuration options
func buildGenAIOptions(config Config, flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiBaseURL != "" {
		genaiOpts = append(genaiOpts, genai.WithBaseURL(*flags.openaiBaseURL))
	}
	if config.PrimaryModel != "" {
		genaiOpts = append(genaiOpts, genai.WithPrimaryModel(config.PrimaryModel))
	}
	if config.AnalysisModel != "" {
		genaiOpts = append(genaiOpts, genai.WithAnalysisModel(config.AnalysisModel))
	}
	if config.GenAITimeout > 0 {
		genaiOpts = append(genaiOpts, genai.WithTimeout(config.GenAITimeout))
	}
	if config.ReplyMaxTokens > 0 {
		genaiOpts = append(genaiOpts, genai.WithReplyMaxTokens(config.ReplyMaxTokens))
	}
	return genaiOpts
}

// buildSessionOptions constructs session manager configuration options
func buildSessionOptions(config Config) []session.Option {
	return []session.Option{
		session.WithTTL(config.SessionTTL),
		session.WithSweepInterval(config.SweepInterval),
	}
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
