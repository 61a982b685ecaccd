package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment holds the settings that come from the process environment
// or a .env file
type Environment struct {
	Username          string
	BackupDir         string
	SessionDir        string
	LogsDir           string
	SessionPassphrase string
}

// LoadEnvironment loads envFile (when it exists) and reads the IG_ and
// IGSAVER_ variables. Variables already set in the process win over the file.
func LoadEnvironment(envFile string) Environment {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	return Environment{
		Username:          os.Getenv("IG_USERNAME"),
		BackupDir:         getenv("IGSAVER_BACKUP_DIR", "backups"),
		SessionDir:        getenv("IGSAVER_SESSION_DIR", ".sessions"),
		LogsDir:           getenv("IGSAVER_LOGS_DIR", "logs"),
		SessionPassphrase: os.Getenv("IGSAVER_SESSION_PASSPHRASE"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
