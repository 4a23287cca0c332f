package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/agoralabs/agora-terminal/pkg/errors"
)

const (
	defaultAPIBaseURL   = "http://localhost:8000"
	defaultWebSocketURL = "ws://localhost:8000/ws"

	defaultMaxLeverage     = 20.0
	defaultMinPositionSize = 10.0
	defaultMaxPositionSize = 100000.0
)

// Environment variables override whatever the config file says. They are the
// only knobs most deployments touch.
const (
	EnvAPIBaseURL   = "AGORA_API_URL"
	EnvWebSocketURL = "AGORA_WS_URL"
	EnvDebug        = "AGORA_DEBUG"
)

// TradingLimits bounds what the venue will accept from an agent.
type TradingLimits struct {
	MaxLeverage     float64 `yaml:"max_leverage" json:"max_leverage" jsonschema:"title=Max Leverage,description=Highest leverage the venue accepts,minimum=1" validate:"gte=1"`
	MinPositionSize float64 `yaml:"min_position_size" json:"min_position_size" jsonschema:"title=Min Position Size,description=Smallest position notional in USDC,minimum=0" validate:"gte=0"`
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" jsonschema:"title=Max Position Size,description=Largest position notional in USDC,minimum=0" validate:"gtefield=MinPositionSize"`
}

// Config holds the terminal's connection endpoints and trading limits.
type Config struct {
	APIBaseURL   string        `yaml:"api_base_url" json:"api_base_url" jsonschema:"title=API Base URL,description=Venue REST endpoint" validate:"required,uri"`
	WebSocketURL string        `yaml:"websocket_url" json:"websocket_url" jsonschema:"title=WebSocket URL,description=Venue live feed endpoint" validate:"required,uri"`
	Debug        bool          `yaml:"debug" json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	Limits       TradingLimits `yaml:"limits" json:"limits" jsonschema:"title=Trading Limits"`
}

// NewDefaultConfig returns a config pointed at a local venue.
func NewDefaultConfig() Config {
	return Config{
		APIBaseURL:   defaultAPIBaseURL,
		WebSocketURL: defaultWebSocketURL,
		Limits: TradingLimits{
			MaxLeverage:     defaultMaxLeverage,
			MinPositionSize: defaultMinPositionSize,
			MaxPositionSize: defaultMaxPositionSize,
		},
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid terminal config", err)
	}

	return nil
}

// LoadConfig reads a YAML config file, fills in defaults for anything the file
// omits, and applies environment overrides. An empty path skips the file and
// uses defaults plus environment only.
func LoadConfig(path string) (Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, errors.Wrap(errors.ErrCodeConfigParseFailed, "failed to parse config file", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.APIBaseURL = v
	}

	if v := os.Getenv(EnvWebSocketURL); v != "" {
		c.WebSocketURL = v
	}

	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}
