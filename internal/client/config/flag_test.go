package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{name: "Test1 all flags", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-t", "tok", "-u", "u1", "-o", "org-1", "-f", "local.db"},
			expected: &Config{ServerBaseURL: "http://127.0.0.1:9090", AccessToken: "tok", UserID: "u1", OrganizationID: "org-1", DatabasePath: "local.db"}},
		{name: "Test2 partial flags keep existing", args: []string{"cmd", "-a", "http://other:1"},
			expected: &Config{ServerBaseURL: "http://other:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Equal(t, tt.expected, config)
		})
	}
}
