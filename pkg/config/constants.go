package config

// EnvPrefix is the envconfig prefix shared by every variable the service reads.
const EnvPrefix = "NEXOBUY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "NEXOBUY_DB_DSN"
	EnvDBHost = "NEXOBUY_DB_HOST"
	EnvDBUser = "NEXOBUY_DB_USER"
	EnvDBName = "NEXOBUY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
