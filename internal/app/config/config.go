package config

import (
	"medibook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "medibook-assets"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                  utils.GetEnvString("APP_TIMEZONE", "Africa/Cairo"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			AdminAPIKey:               utils.GetEnvString("APP_ADMIN_API_KEY", ""),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeout:           utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
		},
		Booking: Booking{
			WindowDays:                 utils.GetEnvInt("BOOKING_WINDOW_DAYS", 7),
			SlotMinutes:                utils.GetEnvInt("BOOKING_SLOT_MINUTES", 30),
			DayStartHour:               utils.GetEnvInt("BOOKING_DAY_START_HOUR", 10),
			DayEndHour:                 utils.GetEnvInt("BOOKING_DAY_END_HOUR", 21),
			PendingPaymentTTLInMinutes: utils.GetEnvInt("BOOKING_PENDING_PAYMENT_TTL_IN_MINUTES", 30),
			SweepIntervalInSeconds:     utils.GetEnvInt("BOOKING_SWEEP_INTERVAL_IN_SECONDS", 60),
			SweepBatchSize:             utils.GetEnvInt("BOOKING_SWEEP_BATCH_SIZE", 100),
		},
		PaymentGateway: PaymentGateway{
			BaseUrl:              utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://gateway.local"),
			MerchantID:           utils.GetEnvString("PAYMENT_GATEWAY_MERCHANT_ID", ""),
			ApiKey:               utils.GetEnvString("PAYMENT_GATEWAY_API_KEY", ""),
			HMACSecret:           utils.GetEnvString("PAYMENT_GATEWAY_HMAC_SECRET", ""),
			Currency:             utils.GetEnvString("PAYMENT_GATEWAY_CURRENCY", "EGP"),
			HTTPTimeoutInSeconds: utils.GetEnvInt("PAYMENT_GATEWAY_HTTP_TIMEOUT_IN_SECONDS", 10),
			MaxAttempts:          utils.GetEnvInt("PAYMENT_GATEWAY_MAX_ATTEMPTS", 3),
			RequestsPerSecond:    utils.GetEnvInt("PAYMENT_GATEWAY_REQUESTS_PER_SECOND", 5),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Notification: Notification{
			MailerQueue: utils.GetEnvString("APP_RABBITMQ_MAILER_QUEUE", "medibook.mailer"),
		},
	}
}
