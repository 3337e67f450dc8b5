package config

type InternalConfig struct {
	App          App
	Compensation AppCompensation
	Minio        AppMinio
	RabbitMQ     AppRabbitMQ
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	RequestTimeoutInSeconds    int
	SuperadminAPIKey           string
	BatchRequestsPerMinute     int
	BatchRequestBurst          int
	RequestBodyLimitInMegabyte int
}

// AppCompensation configures payroll calculation.
type AppCompensation struct {
	// StrictPaymentConfig rejects doctors whose payment settings are missing
	// instead of counting the missing values as 0.
	StrictPaymentConfig bool
	// CacheTTLInSeconds of 0 disables caching of computed compensations.
	CacheTTLInSeconds int
	BatchConcurrency  int
}

type AppMinio struct {
	ReportBucketName string
}

type AppRabbitMQ struct {
	PayrollQueue string
}
