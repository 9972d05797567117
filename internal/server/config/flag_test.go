package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "db", "-n", "revisions-table", "-R", "us-west-1", "-E", "http://dynamodb-local:8000",
			"-er", "us-west-2", "-ee", "http://sns-local:4566", "-ps", "250", "-ls", "1500",
		}, expectPanic: false,
			expected: &Config{
				PrimaryDatabaseDSN: "db",
				SecondaryTableName: "revisions-table",
				SecondaryRegion:    "us-west-1",
				SecondaryEndpoint:  "http://dynamodb-local:8000",
				EventBusRegion:     "us-west-2",
				EventBusEndpoint:   "http://sns-local:4566",
				MigrationPageSize:  250,
				ReplicationLagSleep: 1500 * time.Millisecond,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
