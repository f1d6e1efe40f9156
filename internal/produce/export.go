package produce

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/xuri/excelize/v2"
)

// ExportReport writes all harvest records as an XLSX workbook (admin only).
func ExportReport(w http.ResponseWriter, r *http.Request) {
	var records []Productivity
	if err := db.DB.Preload("Farm").Preload("Farm.Farmer").Preload("Farm.District").
		Order("harvest_date DESC").
		Find(&records).Error; err != nil {
		httputil.Internal(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Harvests"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Harvest Date", "Farmer", "District", "Farm Area (ha)", "Production (kg)", "Selling Price", "Productivity (kg/ha)", "Revenue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, rec := range records {
		values := []interface{}{
			rec.HarvestDate,
			rec.Farm.Farmer.Name,
			rec.Farm.District.DistrictName,
			rec.Farm.FarmArea,
			rec.ProductionAmount,
			rec.SellingPrice,
			rec.Productivity,
			rec.ProductionAmount * rec.SellingPrice,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("harvest-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(w); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}
