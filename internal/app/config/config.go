package config

import (
	"clinic-service/internal/pkg/utils"

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
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "clinic"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			Database: utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:        utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:        utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username:    utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password:    utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			VirtualHost: utils.GetEnvString("RABBITMQ_VHOST", "/"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 30),
			SuperadminAPIKey:           utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			BatchRequestsPerMinute:     utils.GetEnvInt("APP_BATCH_REQUESTS_PER_MINUTE", 6),
			BatchRequestBurst:          utils.GetEnvInt("APP_BATCH_REQUEST_BURST", 2),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 1),
		},
		Compensation: AppCompensation{
			StrictPaymentConfig: utils.GetEnvBool("COMPENSATION_STRICT_PAYMENT_CONFIG", false),
			CacheTTLInSeconds:   utils.GetEnvInt("COMPENSATION_CACHE_TTL_IN_SECONDS", 0),
			BatchConcurrency:    utils.GetEnvInt("COMPENSATION_BATCH_CONCURRENCY", 4),
		},
		Minio: AppMinio{
			ReportBucketName: utils.GetEnvString("MINIO_REPORT_BUCKET_NAME", "payroll-reports"),
		},
		RabbitMQ: AppRabbitMQ{
			PayrollQueue: utils.GetEnvString("APP_RABBITMQ_PAYROLL_QUEUE", "payroll"),
		},
	}
}
