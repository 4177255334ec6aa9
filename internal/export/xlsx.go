package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

const agendaSheet = "Agenda"

var agendaHeader = []string{"Start", "End", "Worker", "Service", "Customer", "Phone", "Status", "Code", "Notes"}

// DayAgenda renders one company day as a spreadsheet, one row per
// reservation in the given order. Returns the file and a suggested name.
func DayAgenda(
	company models.Company,
	date string,
	list []models.Reservation,
) (*bytes.Buffer, string, error) {

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(agendaSheet)
	if err != nil {
		return nil, "", fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("delete default sheet: %w", err)
	}

	lastCol := colName(len(agendaHeader))
	f.SetColWidth(agendaSheet, "A", "B", 8)
	f.SetColWidth(agendaSheet, "C", "E", 22)
	f.SetColWidth(agendaSheet, "F", lastCol, 16)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("header style: %w", err)
	}

	// title
	f.SetCellValue(agendaSheet, "A1", fmt.Sprintf("%s - %s", company.Name, date))
	f.MergeCell(agendaSheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(agendaSheet, "A1", "A1", headerStyle)

	// header
	for i, h := range agendaHeader {
		f.SetCellValue(agendaSheet, cell(colName(i+1), 2), h)
	}
	f.SetCellStyle(agendaSheet, "A2", cell(lastCol, 2), headerStyle)

	row := 3
	for _, r := range list {
		worker := "-"
		if r.Worker != nil {
			worker = r.Worker.Name
		}

		values := []any{
			r.StartTime,
			r.EndTime,
			worker,
			r.Service.Name,
			r.Customer.Name,
			r.Customer.Phone,
			r.Status,
			r.Code,
			r.Notes,
		}
		if err := f.SetSheetRow(agendaSheet, cell("A", row), &values); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}

	return buf, fmt.Sprintf("agenda_%s_%s.xlsx", company.Slug, date), nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
