package config

import (
	"fmt"
	"time"

	"notevault/utils"
)

// Version reported by GET /health.
const Version = "1.0.0"

// Settings holds everything read from the environment at startup.
type Settings struct {
	AppName string
	Debug   bool

	// Identity provider. CredentialsPath is required before serving traffic;
	// APIKey is only needed by the register/login endpoints and may be empty.
	IdentityCredentialsPath string
	IdentityAPIKey          string
	IdentityBaseURL         string

	Database DatabaseSettings

	Host string
	Port int
}

type DatabaseSettings struct {
	URI             string
	Name            string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
}

func Load() Settings {
	return Settings{
		AppName: utils.GetEnvAsString("APP_NAME", "notevault"),
		Debug:   utils.GetEnvAsBool("DEBUG", false),

		IdentityCredentialsPath: utils.GetEnvAsString("IDENTITY_CREDENTIALS_PATH", ""),
		IdentityAPIKey:          utils.GetEnvAsString("IDENTITY_API_KEY", ""),
		IdentityBaseURL: utils.GetEnvAsString("IDENTITY_BASE_URL",
			"https://identitytoolkit.googleapis.com/v1"),

		Database: DatabaseSettings{
			URI:             utils.GetEnvAsString("MONGO_URI", ""),
			Name:            utils.GetEnvAsString("MONGO_DB", "notevault"),
			MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
			MaxConnIdleTime: utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
			RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		},

		Host: utils.GetEnvAsString("HOST", "0.0.0.0"),
		Port: utils.GetEnvAsInt("PORT", 8080),
	}
}

// Addr returns the bind address for the HTTP server.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
