package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderElevenLabs = "elevenlabs"
	ProviderOpenAI     = "openai"

	BackendHub   = "hub"
	BackendLocal = "local"
)

// Config holds the application's configuration.
type Config struct {
	ServerPort  string `mapstructure:"server_port"`
	DatabaseDSN string `mapstructure:"database_dsn"`
	LogDir      string `mapstructure:"log_dir"`

	SessionSecret string `mapstructure:"session_secret"`

	TTSProvider      string `mapstructure:"tts_provider"`
	ElevenLabsAPIKey string `mapstructure:"elevenlabs_api_key"`
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	OpenAIBaseURL    string `mapstructure:"openai_base_url"`
	SynthRatePerMin  int    `mapstructure:"synth_rate_per_min"`

	DatasetBackend  string `mapstructure:"dataset_backend"`
	DatasetLocalDir string `mapstructure:"dataset_local_dir"`
	HFToken         string `mapstructure:"hf_token"`
	HFEndpoint      string `mapstructure:"hf_endpoint"`
	HFDatasetRepo   string `mapstructure:"hf_dataset_repo"`
	HFDatasetPath   string `mapstructure:"hf_dataset_path"`
}

// keys maps every config key to the environment variable that overrides it.
var keys = map[string]string{
	"server_port":         "SERVER_PORT",
	"database_dsn":        "DATABASE_DSN",
	"log_dir":             "LOG_DIR",
	"session_secret":      "SESSION_SECRET",
	"tts_provider":        "TTS_PROVIDER",
	"elevenlabs_api_key":  "ELEVENLABS_API_KEY",
	"openai_api_key":      "OPENAI_API_KEY",
	"openai_base_url":     "OPENAI_BASE_URL",
	"synth_rate_per_min":  "SYNTH_RATE_PER_MIN",
	"dataset_backend":     "DATASET_BACKEND",
	"dataset_local_dir":   "DATASET_LOCAL_DIR",
	"hf_token":            "HF_TOKEN",
	"hf_endpoint":         "HF_ENDPOINT",
	"hf_dataset_repo":     "HF_DATASET_REPO",
	"hf_dataset_path":     "HF_DATASET_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("database_dsn", "memory")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("tts_provider", ProviderElevenLabs)
	v.SetDefault("synth_rate_per_min", 20)
	v.SetDefault("dataset_backend", BackendHub)
	v.SetDefault("dataset_local_dir", "data")
	v.SetDefault("hf_endpoint", "https://huggingface.co")
	v.SetDefault("hf_dataset_path", "responses.csv")
}

// Options controls where LoadConfig looks for its inputs.
type Options struct {
	EnvFiles    []string // dotenv files; missing files are skipped
	ConfigPaths []string // directories searched for config.yaml
}

// DefaultOptions mirrors the layout used when running from the repository root.
func DefaultOptions() Options {
	return Options{
		EnvFiles:    []string{".env"},
		ConfigPaths: []string{"./config", "."},
	}
}

// LoadConfig loads .env files, then config.yaml, with environment variables taking precedence.
func LoadConfig(opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Printf("INFO: [Config] Env file '%s' not found, skipping.", f)
				continue
			}
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
		log.Printf("INFO: [Config] Loaded env file '%s'.", f)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}
	setDefaults(v)
	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Println("INFO: [Config] No config.yaml found. Using environment variables and defaults.")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.TTSProvider = strings.ToLower(strings.TrimSpace(cfg.TTSProvider))
	cfg.DatasetBackend = strings.ToLower(strings.TrimSpace(cfg.DatasetBackend))
	if cfg.HFDatasetPath == "" {
		cfg.HFDatasetPath = "responses.csv"
	}

	log.Println("INFO: [Config] Configuration loading complete.")
	return &cfg, nil
}

// Validate returns one error per missing or invalid setting. None of them is fatal:
// the survey still renders, and the operations depending on the setting fail later.
func (c *Config) Validate() []error {
	var errs []error
	switch c.TTSProvider {
	case ProviderElevenLabs:
		if c.ElevenLabsAPIKey == "" {
			errs = append(errs, errors.New("missing ELEVENLABS_API_KEY"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("missing OPENAI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TTS_PROVIDER %q", c.TTSProvider))
	}

	switch c.DatasetBackend {
	case BackendHub:
		if c.HFToken == "" {
			errs = append(errs, errors.New("missing HF_TOKEN"))
		}
	case BackendLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_BACKEND %q", c.DatasetBackend))
	}
	if c.HFDatasetRepo == "" {
		errs = append(errs, errors.New("missing HF_DATASET_REPO"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("missing SESSION_SECRET, using an ephemeral secret"))
	}
	return errs
}

// Messages flattens validation errors for display.
func Messages(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
