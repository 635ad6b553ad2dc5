// Package export serializes donations into the ledger layout used by the
// temple's spreadsheets.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"kovil/internal/domain"
	"kovil/pkg/zip"
)

// Header is the fixed column order of every export.
var Header = []string{"S.No", "Receipt No", "Name", "Community", "Location", "Address", "Phone", "Amount", "Payment Mode", "Inscription", "Date"}

const sheetName = "Donations"

// Record renders one donation as export cells. Dates are the effective date
// in loc as DD/MM/YYYY.
func Record(index int, d domain.Donation, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	inscription := "No"
	if d.Inscription {
		inscription = "Yes"
	}
	return []string{
		strconv.Itoa(index + 1),
		d.ReceiptNo,
		d.Name,
		string(d.Community),
		d.Location,
		d.Address,
		d.Phone,
		strconv.FormatInt(d.Amount, 10),
		string(d.PaymentMode),
		inscription,
		d.EffectiveDate().In(loc).Format("02/01/2006"),
	}
}

// WriteCSV writes the header and one line per donation.
func WriteCSV(w io.Writer, items []domain.Donation, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i, d := range items {
		if err := cw.Write(Record(i, d, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with the same columns as WriteCSV.
// S.No and Amount are stored as numbers.
func WriteXLSX(w io.Writer, items []domain.Donation, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, d := range items {
		rec := Record(i, d, loc)
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		row[0] = i + 1
		row[7] = d.Amount
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

// ContentType returns the MIME type for format ("csv", "xlsx" or "zip").
func ContentType(format string) string {
	switch format {
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "zip":
		return "application/zip"
	}
	return "text/csv"
}

// WriteBundle writes a zip holding donations.csv and donations.xlsx.
func WriteBundle(w io.Writer, items []domain.Donation, loc *time.Location) error {
	var csvBuf, xlsxBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, items, loc); err != nil {
		return err
	}
	if err := WriteXLSX(&xlsxBuf, items, loc); err != nil {
		return err
	}
	now := time.Now()
	raw, err := zip.Bundle([]zip.Entry{
		{Name: "donations.csv", Data: csvBuf.Bytes(), Modified: now},
		{Name: "donations.xlsx", Data: xlsxBuf.Bytes(), Modified: now},
	})
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// Write dispatches on format.
func Write(w io.Writer, format string, items []domain.Donation, loc *time.Location) error {
	switch format {
	case "", "csv":
		return WriteCSV(w, items, loc)
	case "xlsx":
		return WriteXLSX(w, items, loc)
	case "zip":
		return WriteBundle(w, items, loc)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
