package elevation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var exportHeader = []string{"geoid", "name", "name_lsad", "elevation_pop_center_m", "elevation_mean_m"}

// WriteCSV writes batch records as CSV with a header row. Missing elevations
// become empty cells.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return eris.Wrap(err, "elevation: write csv header")
	}
	for _, rec := range records {
		row := []string{
			rec.GEOID,
			rec.Name,
			rec.NameLSAD,
			formatMeters(rec.ElevationPopCenter),
			formatMeters(rec.ElevationMean),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "elevation: write csv row %s", rec.GEOID)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "elevation: flush csv")
	}
	return nil
}

// WriteXLSX writes batch records to a single-sheet workbook at path.
func WriteXLSX(path, sheetName string, records []Record) error {
	if sheetName == "" {
		sheetName = "Elevation"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "elevation: add sheet %q", sheetName)
	}

	header := sheet.AddRow()
	for _, col := range exportHeader {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.GEOID)
		row.AddCell().SetString(rec.Name)
		row.AddCell().SetString(rec.NameLSAD)
		addMetersCell(row, rec.ElevationPopCenter)
		addMetersCell(row, rec.ElevationMean)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "elevation: save workbook %s", path)
	}
	return nil
}

// addMetersCell writes an integer cell, or an empty one for missing values.
func addMetersCell(row *xlsx.Row, v *int) {
	cell := row.AddCell()
	if v != nil {
		cell.SetInt(*v)
	}
}

func formatMeters(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
