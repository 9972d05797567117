package config

import (
	"flag"
	"os"
	"time"

	"github.com/syncd-project/syncd/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   primary PostgreSQL DSN
//	-n string   secondary (DynamoDB) table name
//	-R string   secondary region
//	-E string   secondary endpoint override
//	-er string  event bus region
//	-ee string  event bus endpoint override
//	-ps int     migration page size
//	-ls int     replication-lag sleep, in milliseconds
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - ReplicationLagSleep is accepted in milliseconds on the command line and
//     converted to a time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-R", "-E", "-er", "-ee", "-ps", "-ls"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.PrimaryDatabaseDSN, "d", config.PrimaryDatabaseDSN, "primary database DSN")
	fs.StringVar(&config.SecondaryTableName, "n", config.SecondaryTableName, "secondary store table name")
	fs.StringVar(&config.SecondaryRegion, "R", config.SecondaryRegion, "secondary store region")
	fs.StringVar(&config.SecondaryEndpoint, "E", config.SecondaryEndpoint, "secondary store endpoint override")
	fs.StringVar(&config.EventBusRegion, "er", config.EventBusRegion, "event bus region")
	fs.StringVar(&config.EventBusEndpoint, "ee", config.EventBusEndpoint, "event bus endpoint override")

	pageSize := fs.Int("ps", config.MigrationPageSize, "migration page size")
	lagSleepMs := fs.Int("ls", int(config.ReplicationLagSleep.Milliseconds()), "replication lag sleep (ms)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MigrationPageSize = *pageSize
	config.ReplicationLagSleep = time.Duration(*lagSleepMs) * time.Millisecond
}
