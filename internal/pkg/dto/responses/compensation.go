package responses

type Compensation struct {
	DoctorID           string   `json:"doctor_id"`
	DoctorName         string   `json:"doctor_name,omitempty"`
	DateFrom           string   `json:"date_from"`
	DateTo             string   `json:"date_to"`
	PaymentType        string   `json:"payment_type"`
	PeriodRevenue      float64  `json:"period_revenue"`
	CompensationAmount float64  `json:"compensation_amount"`
	PlansConsidered    int      `json:"plans_considered"`
	PlansSkipped       int      `json:"plans_skipped"`
	MatchedItems       int      `json:"matched_items"`
	DefaultedFields    []string `json:"defaulted_fields,omitempty"`
}

type BatchCompensationEntry struct {
	DoctorID     string        `json:"doctor_id"`
	Compensation *Compensation `json:"compensation,omitempty"`
	Error        string        `json:"error,omitempty"`
}

type BatchCompensation struct {
	DateFrom          string                   `json:"date_from"`
	DateTo            string                   `json:"date_to"`
	Entries           []BatchCompensationEntry `json:"entries"`
	SucceededCount    int                      `json:"succeeded_count"`
	FailedCount       int                      `json:"failed_count"`
	TotalRevenue      float64                  `json:"total_revenue"`
	TotalCompensation float64                  `json:"total_compensation"`
	ReportObject      string                   `json:"report_object,omitempty"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
