package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

const dateLayout = "2006-01-02"

// WriteProductsCSV persists the catalog dataset as UTF-8 comma-delimited
// rows with a header. Rating is blank when absent.
func WriteProductsCSV(filename string, ds *models.CatalogDataset) error {
	if ds == nil || len(ds.Records) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	header := []string{"title", "category", "price", "stock_count", "rating", "detail_url", "extraction_date"}
	rows := make([][]string, 0, len(ds.Records))
	for _, r := range ds.Records {
		rating := ""
		if r.Rating != nil {
			rating = strconv.Itoa(*r.Rating)
		}
		rows = append(rows, []string{
			r.Title,
			r.Category,
			formatPrice(r.Price),
			strconv.Itoa(r.StockCount),
			rating,
			r.DetailURL,
			ds.ExtractionDate.Format(dateLayout),
		})
	}

	return writeCSV(filename, header, rows)
}

// WriteSalesCSV persists the synthetic sales history.
func WriteSalesCSV(filename string, sales []models.Sale) error {
	if len(sales) == 0 {
		return fmt.Errorf("no sales to write")
	}

	header := []string{"date", "title", "category", "unit_price", "quantity", "amount"}
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []string{
			s.Date.Format(dateLayout),
			s.Title,
			s.Category,
			formatPrice(s.UnitPrice),
			strconv.Itoa(s.Quantity),
			formatPrice(s.Amount),
		})
	}

	return writeCSV(filename, header, rows)
}

func writeCSV(filename string, header []string, rows [][]string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write csv records: %w", err)
	}

	return f.Close()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
