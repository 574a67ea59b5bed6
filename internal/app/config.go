package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/despertar/internal/adapters/otel"
)

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL selects the store: empty keeps everything in memory,
	// libsql:// or https:// uses Turso, anything else is a local SQLite file.
	DatabaseURL       string `envconfig:"DATABASE_URL"`
	DatabaseAuthToken string `envconfig:"DATABASE_AUTH_TOKEN"`

	Plans                Plans         `envconfig:"PLANS"`
	TaskSimulatedLatency time.Duration `envconfig:"TASK_SIMULATED_LATENCY" default:"300ms"`
	Experiments          Experiments   `envconfig:"EXPERIMENTS"`

	CheckoutURL      string `envconfig:"CHECKOUT_URL"`
	AnalyticsEnabled bool   `envconfig:"ANALYTICS_ENABLED" default:"true"`

	Otel otel.Config `ignored:"true"`
}

// Plans configures the plan API and its client.
type Plans struct {
	// APIURL defaults to this server's own plan endpoints.
	APIURL           string        `envconfig:"API_URL"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"8s"`
	MinDelay         time.Duration `envconfig:"MIN_DELAY" default:"1200ms"`
	SimulatedLatency time.Duration `envconfig:"SIMULATED_LATENCY" default:"800ms"`
}

type Experiments struct {
	ForceControl bool   `envconfig:"FORCE_CONTROL" default:"false"`
	File         string `envconfig:"FILE"`
}

func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Otel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PlansAPIURL returns the configured plan API or the local server address.
func (c *Config) PlansAPIURL() string {
	if c.Plans.APIURL != "" {
		return c.Plans.APIURL
	}
	host := c.Addr
	if len(host) > 0 && host[0] == ':' {
		host = "127.0.0.1" + host
	}
	return "http://" + host
}
