// Package export writes a cleaned listing dataset to SQLite, a reference CSV
// and a markdown profile.
package export

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"compboard/internal/listing"
)

// Table is the SQLite table the cleaned rows land in.
const Table = "listings_cleaned"

// Columns is the export column order shared by the CSV and SQLite outputs.
var Columns = []string{"row", "title", "rating", "review_count", "review_count_log10", "bubble_size"}

var columnTypes = map[string]string{
	"row":                "INTEGER",
	"title":              "TEXT",
	"rating":             "REAL",
	"review_count":       "INTEGER",
	"review_count_log10": "REAL",
	"bubble_size":        "REAL",
}

func values(r listing.CleanedRecord) []any {
	return []any{r.Row, r.Title, r.Rating, r.ReviewCount, r.ReviewCountLog10, r.BubbleSize}
}

func csvValues(r listing.CleanedRecord) []string {
	return []string{
		strconv.Itoa(r.Row),
		r.Title,
		formatFloat(r.Rating),
		strconv.FormatInt(r.ReviewCount, 10),
		formatFloat(r.ReviewCountLog10),
		formatFloat(r.BubbleSize),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteSQLite replaces the file at path with a database holding records.
func WriteSQLite(path string, records []listing.CleanedRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	defs := make([]string, 0, len(Columns))
	for _, c := range Columns {
		defs = append(defs, fmt.Sprintf("%q %s", c, columnTypes[c]))
	}
	if _, err := db.Exec(`DROP TABLE IF EXISTS "` + Table + `"`); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE "` + Table + `" (` + strings.Join(defs, ",") + `)`); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ph := strings.TrimRight(strings.Repeat("?,", len(Columns)), ",")
	qCols := make([]string, len(Columns))
	for i, c := range Columns {
		qCols[i] = fmt.Sprintf("%q", c)
	}
	stmt, err := tx.Prepare(`INSERT INTO "` + Table + `" (` + strings.Join(qCols, ",") + `) VALUES (` + ph + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.Exec(values(r)...); err != nil {
			return fmt.Errorf("insert row %d: %w", r.Row, err)
		}
	}
	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_listings_cleaned_rating ON ` + Table + `(rating)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_cleaned_log10 ON ` + Table + `(review_count_log10)`,
	} {
		if _, err := tx.Exec(idx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// WriteCSV writes records as a UTF-8 CSV with a BOM so spreadsheet tools pick
// up the Chinese titles.
func WriteCSV(path string, records []listing.CleanedRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	if err := writeRecord(f, Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := writeRecord(f, csvValues(r)); err != nil {
			return err
		}
	}
	return f.Close()
}

func writeRecord(w io.Writer, rec []string) error {
	for i, field := range rec {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if needsQuote(field) {
			field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := io.WriteString(w, field); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func needsQuote(s string) bool {
	return strings.ContainsAny(s, ",\"\n\r")
}
