package requests

type DateRange struct {
	DateFrom string `json:"date_from" validate:"required,date"`
	DateTo   string `json:"date_to" validate:"required,date"`
}

type BatchCompensation struct {
	DoctorIDs    []string `json:"doctor_ids" validate:"omitempty,dive,required"`
	DateFrom     string   `json:"date_from" validate:"required,date"`
	DateTo       string   `json:"date_to" validate:"required,date"`
	ExportReport bool     `json:"export_report"`
}

func (r BatchCompensation) DateRange() DateRange {
	return DateRange{DateFrom: r.DateFrom, DateTo: r.DateTo}
}
