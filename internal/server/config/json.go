package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/syncd-project/syncd/internal/flagx"
	"github.com/syncd-project/syncd/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// duration strings such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	PrimaryDatabaseDSN string `json:"primary_database_dsn"`

	SecondaryTableName string `json:"secondary_table_name"`
	SecondaryRegion    string `json:"secondary_region"`
	SecondaryEndpoint  string `json:"secondary_endpoint"`

	EventBusRegion   string `json:"event_bus_region"`
	EventBusEndpoint string `json:"event_bus_endpoint"`

	TransitionRequestedTopicARN     string `json:"transition_requested_topic_arn"`
	TransitionStatusUpdatedTopicARN string `json:"transition_status_updated_topic_arn"`
	ItemRevisionCreationTopicARN    string `json:"item_revision_creation_topic_arn"`
	DuplicateItemSyncedTopicARN     string `json:"duplicate_item_synced_topic_arn"`

	MigrationPageSize   int            `json:"migration_page_size"`
	ReplicationLagSleep timex.Duration `json:"replication_lag_sleep"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.PrimaryDatabaseDSN = c.PrimaryDatabaseDSN

	config.SecondaryTableName = c.SecondaryTableName
	config.SecondaryRegion = c.SecondaryRegion
	config.SecondaryEndpoint = c.SecondaryEndpoint

	config.EventBusRegion = c.EventBusRegion
	config.EventBusEndpoint = c.EventBusEndpoint

	config.TransitionRequestedTopicARN = c.TransitionRequestedTopicARN
	config.TransitionStatusUpdatedTopicARN = c.TransitionStatusUpdatedTopicARN
	config.ItemRevisionCreationTopicARN = c.ItemRevisionCreationTopicARN
	config.DuplicateItemSyncedTopicARN = c.DuplicateItemSyncedTopicARN

	config.MigrationPageSize = c.MigrationPageSize
	config.ReplicationLagSleep = time.Duration(c.ReplicationLagSleep.Duration)
}
