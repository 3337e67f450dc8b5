package report

import (
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/responses"
	"clinic-service/internal/pkg/exceptions"
	"fmt"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
)

var payrollColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

var payrollHeaders = []string{
	"Doctor ID",
	"Doctor",
	"Payment Type",
	"Period Revenue",
	"Compensation",
	"Plans",
	"Matched Items",
	"Notes",
}

type xlsxPayrollReport struct{}

func NewXLSXPayrollReport() contracts.PayrollReportRenderer {
	return &xlsxPayrollReport{}
}

// Render writes one row per doctor, failed doctors included with their
// error in the notes column, followed by a totals row.
func (x *xlsxPayrollReport) Render(batch *responses.BatchCompensation) ([]byte, error) {
	file := excelize.NewFile()
	sheet := constvars.PayrollReportSheetName
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")

	for i, header := range payrollHeaders {
		file.SetCellValue(sheet, cell(i, 1), header)
	}

	row := 2
	for _, entry := range batch.Entries {
		file.SetCellValue(sheet, cell(0, row), entry.DoctorID)
		if entry.Compensation == nil {
			file.SetCellValue(sheet, cell(7, row), entry.Error)
			row++
			continue
		}

		compensation := entry.Compensation
		file.SetCellValue(sheet, cell(1, row), compensation.DoctorName)
		file.SetCellValue(sheet, cell(2, row), compensation.PaymentType)
		file.SetCellValue(sheet, cell(3, row), compensation.PeriodRevenue)
		file.SetCellValue(sheet, cell(4, row), compensation.CompensationAmount)
		file.SetCellValue(sheet, cell(5, row), compensation.PlansConsidered)
		file.SetCellValue(sheet, cell(6, row), compensation.MatchedItems)
		if len(compensation.DefaultedFields) > 0 {
			file.SetCellValue(sheet, cell(7, row), "defaulted to 0: "+strings.Join(compensation.DefaultedFields, ", "))
		}
		row++
	}

	file.SetCellValue(sheet, cell(0, row), fmt.Sprintf("Total %s - %s", batch.DateFrom, batch.DateTo))
	file.SetCellValue(sheet, cell(3, row), batch.TotalRevenue)
	file.SetCellValue(sheet, cell(4, row), batch.TotalCompensation)

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, exceptions.ErrRenderReport(err)
	}
	return buffer.Bytes(), nil
}

func cell(column, row int) string {
	return fmt.Sprintf("%s%d", payrollColumns[column], row)
}
