// Package config holds runtime settings for the TeamBridge server.
package config

import "time"

// Config holds runtime settings for the message store server.
//
// Fields:
//   - EndpointAddr: host:port the HTTP API listens on.
//   - DatabaseDSN: Postgres connection string.
//   - SecretKey: HMAC key for access-token verification.
//   - TokenValidity: lifetime of minted access tokens.
//   - S3*: object storage settings for photo attachment presigning.
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	SecretKey      string
	TokenValidity  time.Duration
	S3Region       string
	S3BaseEndpoint string
	S3Bucket       string
	S3RootUser     string
	S3RootPassword string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "127.0.0.1:8080"
	c.TokenValidity = 24 * time.Hour
	c.S3Region = "us-east-1"
	c.S3Bucket = "teambridge-attachments"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
