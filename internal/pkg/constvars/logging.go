package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingEndpointKey           = "endpoint"
	LoggingMethodKey             = "method"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingDurationKey           = "duration"
	LoggingErrorTypeKey          = "error_type"
	LoggingStatusCodeKey         = "status_code"
	LoggingProviderIDKey         = "provider_id"
	LoggingAppointmentIDKey      = "appointment_id"
	LoggingAppointmentStatusKey  = "appointment_status"
	LoggingPatientIDKey          = "patient_id"
	LoggingDateKeyKey            = "date_key"
	LoggingTimeLabelKey          = "time_label"
	LoggingMerchantRefKey        = "merchant_ref"
	LoggingGatewayRefKey         = "gateway_ref"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingQueueNameKey          = "queue_name"
	LoggingAttemptKey            = "attempt"
)
