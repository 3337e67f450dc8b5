package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingDoctorIDKey           = "doctor_id"
	LoggingDoctorCountKey        = "doctor_count"
	LoggingDateFromKey           = "date_from"
	LoggingDateToKey             = "date_to"
	LoggingPlanCountKey          = "plan_count"
	LoggingPaymentTypeKey        = "payment_type"
	LoggingDefaultedFieldsKey    = "defaulted_fields"
	LoggingPeriodRevenueKey      = "period_revenue"
	LoggingCompensationAmountKey = "compensation_amount"
	LoggingFailedCountKey        = "failed_count"
	LoggingObjectNameKey         = "object_name"
	LoggingQueueNameKey          = "queue_name"
	LoggingCacheKey              = "cache_key"
	LoggingDocumentIDKey         = "document_id"
)
