package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Text generation
	LLMProvider      LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel      string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-latest"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
	LLMMaxAttempts   int           `env:"LLM_MAX_ATTEMPTS" envDefault:"4"`
	LLMInitialDelay  time.Duration `env:"LLM_INITIAL_BACKOFF" envDefault:"1s"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	SimulatedDelay   time.Duration `env:"LLM_SIMULATED_DELAY" envDefault:"800ms"`

	// Client side
	APIBaseURL         string        `env:"ALGOTIX_API_URL" envDefault:"http://localhost:8000"`
	SessionDBPath      string        `env:"SESSION_DB_PATH" envDefault:"data/session.db"`
	StatusPollInterval time.Duration `env:"STATUS_POLL_INTERVAL" envDefault:"10s"`
	InteractionLogPath string        `env:"INTERACTION_LOG_PATH" envDefault:"data/interactions.jsonl"`

	// Wallet
	WalletBridgeURL   string `env:"WALLET_BRIDGE_URL" envDefault:"https://bridge.walletconnect.org"`
	WalletSessionPath string `env:"WALLET_SESSION_PATH" envDefault:"data/wallet_session.json"`
	WalletChainID     int    `env:"WALLET_CHAIN_ID" envDefault:"4160"`

	// Backend
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8000"`
	UsersFilePath string        `env:"USERS_FILE_PATH" envDefault:"data/users.json"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	CORSOrigins   []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`

	// Algorand node
	AlgodAddress string `env:"ALGOD_SERVER" envDefault:"https://testnet-api.algonode.cloud"`
	AlgodToken   string `env:"ALGOD_TOKEN"`
	AppID        uint64 `env:"APP_ID"`
	AssetID      uint64 `env:"ASSET_ID"`

	// Telegram
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminUserID      int64  `env:"ADMIN_USER"`
}

// Parse reads the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LLMMaxAttempts < 1 {
		return nil, fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1, got %d", cfg.LLMMaxAttempts)
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
