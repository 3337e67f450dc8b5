package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "maximum at %s",
	"date":     "must be a date formatted as YYYY-MM-DD",
	"dive":     "is invalid",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min": true,
	"max": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientInvalidPeriod                 = "date_from must not be after date_to"
	ErrClientUnknownPaymentType            = "doctor has an unrecognized payment type"
	ErrClientMissingPaymentConfig          = "doctor payment configuration is incomplete"
	ErrClientDoctorNotFound                = "doctor not found"
	ErrClientTooManyRequests               = "too many requests, please try again later"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseDate            = "cannot parse date"
	ErrDevValidationFailed           = "validation failed"
	ErrDevMissingRequestID           = "request id missing from context"
	ErrDevURLParamValidationFailed   = "url param %s validation failed"
	ErrDevServerProcess              = "server failed to process request"
	ErrDevServerDeadlineExceeded     = "deadline exceeded"
	ErrDevInvalidAPIKey              = "invalid API key"
	ErrDevAPIKeyRequired             = "API key is required"
	ErrDevRateLimited                = "rate limit exceeded"
	ErrDevCompensationInvalidPeriod  = "invalid compensation period for doctor %s"
	ErrDevCompensationUnknownPayment = "unknown payment type for doctor %s"
	ErrDevCompensationMissingConfig  = "missing payment configuration for doctor %s"
	ErrDevDoctorNotFound             = "doctor %s not found"

	// Database messages
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents on database"
	ErrDevDBFailedToCountDocuments   = "failed to count documents on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document on database"
	ErrDevDBStringNotObjectID        = "given ID is not valid object ID"

	// Redis messages
	ErrDevRedisGetData = "failed to get data from redis"
	ErrDevRedisSetData = "failed to set data into redis"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object on bucket %s"

	// RabbitMQ messages
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"

	// Report messages
	ErrDevReportRender = "failed to render payroll report"
)
