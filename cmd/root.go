package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-scorer/internal/jobs"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/server"
)

const (
	app = "resume-scorer"
)

type Config struct {
	AI           *AIConfig      `mapstructure:"ai" validate:"required"`
	GitHub       *GitHubConfig  `mapstructure:"github"`
	Server       *server.Config `mapstructure:"server"`
	Notify       *NotifyConfig  `mapstructure:"notify"`
	Jobs         []jobs.Posting `mapstructure:"jobs" validate:"dive"`
	MaxLogLength int            `mapstructure:"max-log-length" validate:"gte=0"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider" validate:"required,oneof=ollama gemini"`
	Ollama   *OllamaConfig `mapstructure:"ollama"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`

	scoring.InvokerConfig `mapstructure:",squash"`
}

type OllamaConfig struct {
	Host  string `mapstructure:"host" validate:"omitempty,url"`
	Model string `mapstructure:"model"`
	// Binary is the executable restarted when the service hangs.
	Binary        string `mapstructure:"binary"`
	ManageService bool   `mapstructure:"manage-service"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key" json:"-"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type GitHubConfig struct {
	Token     string `mapstructure:"token" json:"-"`
	TokenFile string `mapstructure:"token-file"`
	APIURL    string `mapstructure:"api-url" validate:"omitempty,url"`
	UserAgent string `mapstructure:"user-agent"`
}

type NotifyConfig struct {
	Threshold int `mapstructure:"threshold" validate:"gte=0,lte=100"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-scorer scores resumes against job postings with a language model",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("github.token-file", "GITHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding GITHUB_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	invoker := scoring.DefaultInvokerConfig()

	viper.SetDefault("ai.provider", "ollama")
	viper.SetDefault("ai.ollama.model", "openhermes")
	viper.SetDefault("ai.ollama.binary", "ollama")
	viper.SetDefault("ai.ollama.manage-service", true)
	viper.SetDefault("ai.timeout", invoker.Timeout)
	viper.SetDefault("ai.retry-timeout", invoker.RetryTimeout)
	viper.SetDefault("ai.stop-grace", invoker.StopGrace)
	viper.SetDefault("ai.startup-grace", invoker.StartupGrace)
	viper.SetDefault("ai.options.temperature", invoker.Options.Temperature)
	viper.SetDefault("ai.options.top-p", invoker.Options.TopP)
	viper.SetDefault("ai.options.top-k", invoker.Options.TopK)
	viper.SetDefault("ai.options.num-thread", invoker.Options.NumThread)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("notify.threshold", 70)
	viper.SetDefault("max-log-length", 200)
}

func initConfig() {
	// Local development keeps secrets in .env; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	// The version command works without a config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// Defaults are enough to score against an ad-hoc job description.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
		fmt.Fprintf(os.Stderr, "no %s.yaml found, using defaults\n", app)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}
