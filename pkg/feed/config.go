package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Bounds on the rolling collections the client maintains. Inserts truncate
// immediately; the lists never grow past these.
const (
	MaxRequests = 20
	MaxTrades   = 50
	MaxThoughts = 50
	MaxMessages = 100
)

const (
	defaultMaxRetries     = 5
	defaultRetryBackoff   = 3 * time.Second
	defaultThrottleWindow = 100 * time.Millisecond
)

// Config contains configuration for the live feed client.
type Config struct {
	// URL is the venue websocket endpoint, e.g. ws://localhost:8765/ws.
	URL string `json:"url" jsonschema:"title=Feed URL,description=Venue websocket endpoint,required" validate:"required,uri"`
	// MaxRetries is the number of automatic reconnect attempts before the
	// client gives up and waits for a manual Reconnect. Defaults to 5.
	MaxRetries int `json:"maxRetries,omitempty" jsonschema:"title=Max Retries,description=Automatic reconnect attempts before giving up"`
	// RetryBackoff is the base reconnect delay; attempt n waits n times this.
	// Defaults to 3s.
	RetryBackoff time.Duration `json:"retryBackoff,omitempty" jsonschema:"title=Retry Backoff,description=Base reconnect delay in nanoseconds"`
	// ThrottleWindow is the interval over which market and request
	// replacements are coalesced into one commit. Defaults to 100ms.
	ThrottleWindow time.Duration `json:"throttleWindow,omitempty" jsonschema:"title=Throttle Window,description=Coalescing window for bulk updates in nanoseconds"`
}

// Validate validates the Config fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid config: maxRetries must not be negative")
	}

	if c.RetryBackoff < 0 || c.ThrottleWindow < 0 {
		return fmt.Errorf("invalid config: backoff and throttle window must not be negative")
	}

	return nil
}

// withDefaults returns a copy of the config with zero values replaced by the
// documented defaults.
func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}

	if c.RetryBackoff == 0 {
		c.RetryBackoff = defaultRetryBackoff
	}

	if c.ThrottleWindow == 0 {
		c.ThrottleWindow = defaultThrottleWindow
	}

	return c
}

// ParseConfig parses JSON into a Config and validates it.
func ParseConfig(jsonConfig string) (*Config, error) {
	var config Config
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ConfigSchema returns the JSON schema describing Config.
func ConfigSchema() (string, error) {
	schema := jsonschema.Reflect(Config{})

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
