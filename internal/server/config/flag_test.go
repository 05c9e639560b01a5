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
		{name: "Test1 all flags", args: []string{"cmd", "-a", "127.0.0.1:9090", "-d", "postgres://db", "-k", "s3cret"},
			expected: &Config{EndpointAddr: "127.0.0.1:9090", DatabaseDSN: "postgres://db", SecretKey: "s3cret"}},
		{name: "Test2 partial flags keep existing", args: []string{"cmd", "-a", "0.0.0.0:80"},
			expected: &Config{EndpointAddr: "0.0.0.0:80"}},
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
