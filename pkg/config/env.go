package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "KANDANG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                = "KANDANG_APP_ENV"
	EnvPort                  = "KANDANG_APP_PORT"
	EnvGoogleCredentialsJSON = "KANDANG_GOOGLE_CREDENTIALS_JSON"
	EnvGoogleCredentialsFile = "KANDANG_GOOGLE_APPLICATION_CREDENTIALS"
	EnvSpreadsheetID         = "KANDANG_SPREADSHEET_ID"
	EnvInboundRange          = "KANDANG_INBOUND_RANGE"
	EnvOutboundRange         = "KANDANG_OUTBOUND_RANGE"
	EnvOrderPlanPath         = "KANDANG_ORDER_PLAN_PATH"
	EnvRedisURL              = "KANDANG_REDIS_URL"
	EnvGCSBucket             = "KANDANG_GCS_BUCKET_NAME"
)
