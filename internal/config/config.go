package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const maxBatchSize = 500

type Config struct {
	ProjectID string
	LogLevel  string
	Port      string

	// SyncRequireAuth puts POST /sync behind Firebase ID-token verification.
	SyncRequireAuth bool

	// Migration pipeline switches.
	SkipExisting bool
	Checkpoints  bool
	BatchSize    int
}

// New reads an optional .env file and then the environment. Real
// environment variables win over .env values.
func New() *Config {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) *Config {
	v.SetDefault("PROJECTID", "")
	v.SetDefault("LOGLEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("SYNC_REQUIRE_AUTH", false)
	v.SetDefault("MIGRATION_SKIP_EXISTING", false)
	v.SetDefault("MIGRATION_CHECKPOINTS", true)
	v.SetDefault("MIGRATION_BATCH_SIZE", maxBatchSize)
	v.AutomaticEnv()

	projectID := v.GetString("PROJECTID")
	if projectID == "" {
		// set by gcloud and the Firestore emulator tooling
		projectID = v.GetString("GOOGLE_CLOUD_PROJECT")
	}

	return &Config{
		ProjectID:       projectID,
		LogLevel:        v.GetString("LOGLEVEL"),
		Port:            v.GetString("PORT"),
		SyncRequireAuth: v.GetBool("SYNC_REQUIRE_AUTH"),
		SkipExisting:    v.GetBool("MIGRATION_SKIP_EXISTING"),
		Checkpoints:     v.GetBool("MIGRATION_CHECKPOINTS"),
		BatchSize:       clampBatchSize(v.GetInt("MIGRATION_BATCH_SIZE")),
	}
}

// Firestore rejects transactions with more than 500 writes.
func clampBatchSize(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxBatchSize:
		return maxBatchSize
	}
	return n
}
