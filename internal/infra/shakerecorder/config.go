package shakerecorder

import (
	"os"
)

type Config struct {
	Disabled bool

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	BigQueryProjectID  string
	BigQueryDataset    string
	BigQueryEventTable string
	BigQueryBatchTable string
}

func LoadConfig() *Config {
	cfg := &Config{
		Disabled: os.Getenv("SHAKE_RECORDING_DISABLED") == "true",

		InfluxDBURL:    getEnvOrDefault("INFLUXDB_URL", "http://localhost:8086"),
		InfluxDBToken:  os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:    os.Getenv("INFLUXDB_ORG"),
		InfluxDBBucket: getEnvOrDefault("INFLUXDB_BUCKET", "shake_detection"),

		BigQueryProjectID:  getEnvOrDefault("BIGQUERY_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		BigQueryDataset:    getEnvOrDefault("BIGQUERY_DATASET", "shake_detection"),
		BigQueryEventTable: getEnvOrDefault("BIGQUERY_EVENT_TABLE", "shake_events"),
		BigQueryBatchTable: getEnvOrDefault("BIGQUERY_BATCH_TABLE", "batch_stats"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
