package constvars

type ContextKey string

const (
	ResourceDoctors        = "doctors"
	ResourceCompensations  = "compensations"
	ResourceTreatmentPlans = "treatment-plans"
	ResourceHealth         = "health"
)

const (
	MongoCollectionDoctors        = "doctors"
	MongoCollectionTreatmentPlans = "treatment_plans"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH             ContextKey = "api_key_auth"
)

const (
	REQUEST_ID_PREFIX = "CLNC_SVC_"
)

const (
	URLParamDoctorID = "doctorID"

	QueryParamDateFrom = "date_from"
	QueryParamDateTo   = "date_to"
)

const (
	DateLayout = "2006-01-02"
)

const (
	RedisKeyCompensationFormat = "compensation:%s:%s:%s"
)

const (
	PayrollReportSheetName     = "Payroll"
	PayrollReportObjectFormat  = "payroll/%s_%s_%s.xlsx"
	PayrollCalculatedEventType = "payroll.calculated"
	MIMEApplicationSpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
