package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	GetCompensationSuccessMessage      = "compensation calculated successfully"
	GetBatchCompensationSuccessMessage = "batch compensation calculated successfully"
	HealthCheckSuccessMessage          = "service is healthy"
)
