package parser

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign/registry"
)

const envPrefix = "VSIGN"

// Config tunes the decode pipeline. Every knob has a safe default; values can
// be overridden through VSIGN_-prefixed environment variables.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	// MaxPayloadSize bounds the raw input accepted by any Decode call.
	// Oversized payloads are rejected before the recursive inner-instruction
	// path so worst-case decode work stays linear in the input size.
	MaxPayloadSize int `mapstructure:"max_payload_size"`

	EnabledNetworks []string `mapstructure:"enabled_networks"`
}

var defaultConfig = Config{
	LogLevel:       "info",
	MaxPayloadSize: 10 * 1024,
	EnabledNetworks: []string{
		string(registry.NetworkSolana),
		string(registry.NetworkEthereum),
	},
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	cfg := defaultConfig
	cfg.EnabledNetworks = append([]string(nil), defaultConfig.EnabledNetworks...)
	return cfg
}

// LoadConfig resolves the configuration from the environment on top of the
// defaults.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", defaultConfig.LogLevel)
	v.SetDefault("max_payload_size", defaultConfig.MaxPayloadSize)
	v.SetDefault("enabled_networks", defaultConfig.EnabledNetworks)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshalling config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.MaxPayloadSize <= 0 {
		return errors.Errorf("max_payload_size must be positive, got %d", c.MaxPayloadSize)
	}
	if len(c.EnabledNetworks) == 0 {
		return errors.New("no networks enabled")
	}
	for _, network := range c.EnabledNetworks {
		switch registry.Network(network) {
		case registry.NetworkSolana, registry.NetworkEthereum:
		default:
			return errors.Errorf("unknown network %q", network)
		}
	}
	return nil
}

// NetworkEnabled reports whether decoding for the network is switched on.
func (c Config) NetworkEnabled(network registry.Network) bool {
	for _, enabled := range c.EnabledNetworks {
		if registry.Network(enabled) == network {
			return true
		}
	}
	return false
}
