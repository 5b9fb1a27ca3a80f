// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export writes product and customer reports as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"

	"tulasisilks/internal/models"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ParseFormat normalizes a format name. Empty means CSV.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns a dated download name, e.g. products-2026-05-01.csv.
func Filename(report, format string, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", report, at.Format("2006-01-02"), format)
}

type row interface {
	cells() []any
}

type productRow struct {
	ID          int     `csv:"id"`
	Name        string  `csv:"name"`
	Category    string  `csv:"category"`
	Price       float64 `csv:"price"`
	InStock     bool    `csv:"in_stock"`
	Slots       string  `csv:"slots"`
	Image       string  `csv:"image"`
	Description string  `csv:"description"`
	CreatedAt   string  `csv:"created_at"`
	UpdatedAt   string  `csv:"updated_at"`
}

var productHeader = []string{"id", "name", "category", "price", "in_stock", "slots", "image", "description", "created_at", "updated_at"}

func (r productRow) cells() []any {
	return []any{r.ID, r.Name, r.Category, r.Price, r.InStock, r.Slots, r.Image, r.Description, r.CreatedAt, r.UpdatedAt}
}

func productRows(products []models.Product) []productRow {
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		var slots []string
		for _, s := range models.AllSlots {
			if p.Slots.Has(s) {
				slots = append(slots, string(s))
			}
		}
		rows = append(rows, productRow{
			ID:          p.ID,
			Name:        text(p.Name),
			Category:    text(p.Category),
			Price:       p.Price,
			InStock:     p.InStock,
			Slots:       strings.Join(slots, ";"),
			Image:       text(p.Image),
			Description: text(p.Description),
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
		})
	}
	return rows
}

type customerRow struct {
	ID         string  `csv:"id"`
	Name       string  `csv:"name"`
	Email      string  `csv:"email"`
	Phone      string  `csv:"phone"`
	Status     string  `csv:"status"`
	Orders     int     `csv:"orders"`
	TotalSpent float64 `csv:"total_spent"`
	JoinDate   string  `csv:"join_date"`
	LastLogin  string  `csv:"last_login"`
}

var customerHeader = []string{"id", "name", "email", "phone", "status", "orders", "total_spent", "join_date", "last_login"}

func (r customerRow) cells() []any {
	return []any{r.ID, r.Name, r.Email, r.Phone, r.Status, r.Orders, r.TotalSpent, r.JoinDate, r.LastLogin}
}

func customerRows(customers []models.Customer) []customerRow {
	rows := make([]customerRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, customerRow{
			ID:         c.ID,
			Name:       text(c.Name),
			Email:      text(c.Email),
			Phone:      text(c.Phone),
			Status:     string(c.Status),
			Orders:     c.Orders,
			TotalSpent: c.TotalSpent,
			JoinDate:   c.JoinDate.Format("2006-01-02"),
			LastLogin:  c.LastLogin.Format(time.RFC3339),
		})
	}
	return rows
}

// text neutralizes user-entered strings that a spreadsheet would run as a
// formula by prefixing a single quote. Numeric columns are not passed
// through here, so negative prices stay numbers.
func text(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// Products writes the product report in the given format.
func Products(w io.Writer, format string, products []models.Product) error {
	rows := productRows(products)
	if format == FormatXLSX {
		return writeXLSX(w, "Products", productHeader, toRows(rows))
	}
	return writeCSV(w, &rows)
}

// Customers writes the customer report in the given format.
func Customers(w io.Writer, format string, customers []models.Customer) error {
	rows := customerRows(customers)
	if format == FormatXLSX {
		return writeXLSX(w, "Customers", customerHeader, toRows(rows))
	}
	return writeCSV(w, &rows)
}

func toRows[T row](in []T) []row {
	out := make([]row, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func writeCSV(w io.Writer, rows any) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, sheet string, header []string, rows []row) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	for col, h := range header {
		f.SetCellValue(sheet, cellName(col, 1), h)
	}
	for i, r := range rows {
		for col, v := range r.cells() {
			f.SetCellValue(sheet, cellName(col, i+2), v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cellName converts a zero-based column and one-based row into an A1
// reference.
func cellName(col, rowNum int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, rowNum)
}
