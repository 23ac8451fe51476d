package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/carl0-ilagan/padbuddy-server/config"
	"github.com/carl0-ilagan/padbuddy-server/models"
	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

// ExportFieldReadings downloads a field's historical log as an Excel
// workbook, one row per log entry, newest first.
func ExportFieldReadings(w http.ResponseWriter, r *http.Request) {
	f, err := ownedField(r)
	if err != nil {
		http.Error(w, "field not found", http.StatusNotFound)
		return
	}
	win, err := readings.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := config.DB.Where("field_id = ?", f.ID)
	if cutoff, bounded := win.Cutoff(time.Now()); bounded {
		q = q.Where("captured_at >= ?", cutoff)
	}
	var logs []models.SensorLog
	if err := q.Order("captured_at DESC").Find(&logs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	file, err := buildReadingsWorkbook(f.Name, logs)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_readings_%s.xlsx", f.Name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func buildReadingsWorkbook(fieldName string, logs []models.SensorLog) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := "Readings"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Captured At", "Paddy", "Device", "Source",
		"Nitrogen", "Phosphorus", "Potassium", "Temperature", "Humidity", "Water Level"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}

	for row, entry := range logs {
		values := []interface{}{
			entry.CapturedAt.Format("2006-01-02 15:04:05"),
			entry.PaddyID.String(),
			entry.DeviceID,
			entry.Source,
			cellValue(entry.Nitrogen),
			cellValue(entry.Phosphorus),
			cellValue(entry.Potassium),
			cellValue(entry.Temp),
			cellValue(entry.Humidity),
			cellValue(entry.WaterLevel),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	file.SetCellValue(sheet, "L1", "Field: "+fieldName)
	return file, nil
}

// cellValue renders an absent reading as the placeholder dash, never a
// zero.
func cellValue(v *float64) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}
