package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyDBType      string = "SAFEZONE_DB_TYPE"
	EnvKeyDBPath      string = "SAFEZONE_DB_PATH"
	EnvKeyPostgresDSN string = "SAFEZONE_POSTGRES_DSN"

	EnvKeyHttpHostPort string = "SAFEZONE_HTTP_HOST_PORT"
	EnvKeyGrpcHostPort string = "SAFEZONE_GRPC_HOST_PORT"
	EnvKeyPublicURL    string = "SAFEZONE_PUBLIC_URL"

	EnvKeyDefaultRate  string = "SAFEZONE_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "SAFEZONE_DEFAULT_BURST"

	EnvKeyAlertFrequencyMinutes    string = "SAFEZONE_ALERT_FREQUENCY_MINUTES"
	EnvKeyAdvanceThrottleOnFailure string = "SAFEZONE_ADVANCE_THROTTLE_ON_FAILURE"
	EnvKeyEvaluationTimeout        string = "SAFEZONE_EVALUATION_TIMEOUT"

	EnvKeyEmailAPIURL      string = "SAFEZONE_EMAIL_API_URL"
	EnvKeyEmailAPIKey      string = "SAFEZONE_EMAIL_API_KEY"
	EnvKeyEmailFrom        string = "SAFEZONE_EMAIL_FROM"
	EnvKeyWhatsAppAPIURL   string = "SAFEZONE_WHATSAPP_API_URL"
	EnvKeyWhatsAppToken    string = "SAFEZONE_WHATSAPP_TOKEN"
	EnvKeyWhatsAppPhoneID  string = "SAFEZONE_WHATSAPP_PHONE_NUMBER_ID"
	EnvKeyTransportTimeout string = "SAFEZONE_TRANSPORT_TIMEOUT"

	EnvKeyDispatchMode string = "SAFEZONE_DISPATCH_MODE"
	EnvKeyAMQPURL      string = "SAFEZONE_AMQP_URL"
	EnvKeyAMQPQueue    string = "SAFEZONE_AMQP_QUEUE"

	EnvKeyLogDir string = "SAFEZONE_LOG_DIR"

	LoggerNameAlertEngine   string = "alert_engine"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameQueue         string = "queue"
	LoggerNameNotify        string = "notify"

	LoggerFieldCategory    string = "category"
	LoggerCategoryIngest   string = "ingest"
	LoggerCategoryGeofence string = "geofence"
	LoggerCategoryPolicy   string = "policy"
	LoggerCategoryDispatch string = "dispatch"
	LoggerCategoryConfig   string = "config"
	LoggerCategoryStatus   string = "status"
)
