package requests

type PayrollCalculatedEvent struct {
	EventType         string  `json:"event_type"`
	RequestID         string  `json:"request_id,omitempty"`
	DateFrom          string  `json:"date_from"`
	DateTo            string  `json:"date_to"`
	DoctorCount       int     `json:"doctor_count"`
	FailedCount       int     `json:"failed_count"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalCompensation float64 `json:"total_compensation"`
	ReportObject      string  `json:"report_object,omitempty"`
}
