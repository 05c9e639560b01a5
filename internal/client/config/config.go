package config

// Config holds runtime settings for the TeamBridge CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API, e.g. http://127.0.0.1:8080.
//   - AccessToken: bearer token for the API; prompted for interactively when empty.
//   - UserID: identifier of the current user, matching the token's subject.
//   - OrganizationID: the organization whose projects the CLI shows.
//   - DatabasePath: path of the local SQLite file holding read watermarks.
type Config struct {
	ServerBaseURL  string
	AccessToken    string
	UserID         string
	OrganizationID string
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "teambridge.db"
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
