package drafts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"merchant-console/internal/optionmatrix"
)

const variantsSheet = "Variants"

// Fixed columns following the per-axis value columns
const (
	colOriginalPrice = "Original Price"
	colSellingPrice  = "Selling Price"
	colStock         = "Stock"
	colLabel         = "Option"
)

var ErrSheetMismatch = errors.New("sheet does not match the applied options")

// ExportXLSX writes the variant table of d as an Excel workbook
func ExportXLSX(d *Draft) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", variantsSheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	headers := []string{colLabel}
	for _, axis := range d.Axes {
		headers = append(headers, axis.Name)
	}
	headers = append(headers, colOriginalPrice, colSellingPrice, colStock)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(variantsSheet, cell, h)
		f.SetCellStyle(variantsSheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(variantsSheet, colName, colName, 18)
	}

	for r, v := range d.Variants {
		row := make([]interface{}, 0, len(headers))
		row = append(row, v.DisplayLabel)
		// Axes edited after the last apply may not match the row's values.
		for i := range d.Axes {
			value := ""
			if i < len(v.OptionValues) {
				value = v.OptionValues[i].Value
			}
			row = append(row, value)
		}
		row = append(row, v.OriginalPrice, v.SalePrice, v.Stock)

		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(variantsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportXLSX reads prices and stock back from an exported sheet. Rows are
// matched to variants by position and their labels must agree.
func (s *Service) ImportXLSX(ctx context.Context, ownerID string, r io.Reader) (*Draft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not an Excel workbook: %v", ErrSheetMismatch, err)
	}
	defer f.Close()

	rows, err := f.GetRows(variantsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetMismatch, err)
	}
	if len(rows) < 1 {
		return nil, ErrSheetMismatch
	}

	// The label is always the first column and the numeric columns the last
	// three; axis columns in between may reuse any of those header names.
	header := rows[0]
	if len(header) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 columns, got %d", ErrSheetMismatch, len(header))
	}
	n := len(header)
	cols := map[string]int{
		colLabel:         0,
		colOriginalPrice: n - 3,
		colSellingPrice:  n - 2,
		colStock:         n - 1,
	}
	for name, i := range cols {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrSheetMismatch, i+1, header[i], name)
		}
	}
	data := rows[1:]

	return s.mutate(ctx, ownerID, func(d *Draft) error {
		if d.State != StateApplied {
			return ErrNotApplied
		}
		if len(data) != len(d.Variants) {
			return fmt.Errorf("%w: %d rows for %d variants", ErrSheetMismatch, len(data), len(d.Variants))
		}
		variants := d.Variants
		for i, row := range data {
			if cell(row, cols[colLabel]) != variants[i].DisplayLabel {
				return fmt.Errorf("%w: row %d is %q", ErrSheetMismatch, i+2, cell(row, cols[colLabel]))
			}
			for field, col := range map[optionmatrix.Field]string{
				optionmatrix.FieldOriginalPrice: colOriginalPrice,
				optionmatrix.FieldSalePrice:     colSellingPrice,
				optionmatrix.FieldStock:         colStock,
			} {
				variants, err = optionmatrix.UpdateVariantField(variants, i, field, cell(row, cols[col]))
				if err != nil {
					return err
				}
			}
		}
		d.Variants = variants
		return nil
	})
}

// cell tolerates the short rows GetRows returns for trailing empty cells
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
