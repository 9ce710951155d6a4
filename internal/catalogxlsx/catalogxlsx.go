// Package catalogxlsx reads and writes the product spreadsheet used for bulk
// catalog import and export.
package catalogxlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Products"

// Header is the column layout of the first sheet.
var Header = []string{"title", "price", "stock", "description", "category", "brand", "imageURL"}

var ErrEmptySheet = errors.New("no data found in spreadsheet")

// ImportResult is what Read accepted, plus counts of what it dropped.
type ImportResult struct {
	Products   []service.ProductInput
	Skipped    int // missing title, bad numbers
	Duplicates int // same slug seen earlier in the file
}

// Read parses the first sheet. The first row is the header. Rows that
// would produce a slug already seen in the file are dropped.
func Read(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	result := &ImportResult{}
	seen := make(map[string]bool)

	for _, row := range rows[1:] {
		input, ok := parseRow(row)
		if !ok {
			result.Skipped++
			continue
		}

		slug := util.Slugify(input.Title)
		if seen[slug] {
			result.Duplicates++
			continue
		}
		seen[slug] = true
		result.Products = append(result.Products, input)
	}
	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseRow(row []string) (service.ProductInput, bool) {
	title := cell(row, 0)
	if title == "" {
		return service.ProductInput{}, false
	}

	price, err := strconv.ParseFloat(cell(row, 1), 64)
	if err != nil || price < 0 {
		return service.ProductInput{}, false
	}

	stock := 0
	if s := cell(row, 2); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return service.ProductInput{}, false
		}
	}

	return service.ProductInput{
		Title:       title,
		Price:       price,
		Stock:       stock,
		Description: cell(row, 3),
		Category:    cell(row, 4),
		Brand:       cell(row, 5),
		ImageURL:    cell(row, 6),
	}, true
}

// Write renders products as a workbook with the Header layout plus a slug
// column.
func Write(w io.Writer, products []model.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(Header)+1)
	for _, h := range Header {
		header = append(header, h)
	}
	header = append(header, "slug")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, p := range products {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Title, p.Price, p.Stock, p.Description, p.Category, p.Brand, p.ImageURL, p.Slug}
		if err := f.SetSheetRow(SheetName, cellRef, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
