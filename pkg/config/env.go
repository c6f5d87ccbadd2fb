package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "GYMDESK_APP_ENV"
	EnvPort     = "GYMDESK_APP_PORT"
	EnvDBDSN    = "GYMDESK_DB_DSN"
	EnvDBHost   = "GYMDESK_DB_HOST"
	EnvDBUser   = "GYMDESK_DB_USER"
	EnvDBName   = "GYMDESK_DB_NAME"
	EnvRedisURL = "GYMDESK_REDIS_URL"

	EnvJWTSecret              = "GYMDESK_JWT_SECRET"
	EnvJWTIssuer              = "GYMDESK_JWT_ISSUER"
	EnvJWTExpMins             = "GYMDESK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GYMDESK_REFRESH_TOKEN_TTL_MINUTES"
)

// legacyDBEnvVars are the discrete connection variables accepted when no DSN
// is supplied.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
