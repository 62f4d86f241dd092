package nutrition

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/timmy/foodlens/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrTableNotFound is returned (wrapped) together with an empty table when the
	// source does not exist. Callers treat it as a warning, not a failure.
	ErrTableNotFound = errors.New("lookup table not found")

	// ErrInvalidHeader means the header row lacks the id or name column.
	ErrInvalidHeader = errors.New("lookup table header must contain id and name columns")
)

// Column names recognised in the header row (case-insensitive).
const (
	colID          = "id"
	colName        = "name"
	colCalories    = "calories"
	colCarbs       = "carbs"
	colProtein     = "protein"
	colFat         = "fat"
	colSodium      = "sodium"
	colSugar       = "sugar"
	colSupplements = "supplements"
)

// ObjectSource is the read side of object storage.
// A missing object must be reported with an error wrapping fs.ErrNotExist.
type ObjectSource interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// Parse reads a delimited table with a header row.
// Parameters:
//   - r: table contents; a leading UTF-8 byte-order mark is ignored.
// Returns:
//   - *Table: records keyed by id. Rows whose id is not an integer are skipped.
//   - error: non-nil if the header is unusable or the reader fails.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	if _, ok := columns[colID]; !ok {
		return nil, ErrInvalidHeader
	}
	if _, ok := columns[colName]; !ok {
		return nil, ErrInvalidHeader
	}

	table := Empty()
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.skipped++
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		record, ok := parseRow(row, columns)
		if !ok {
			table.skipped++
			continue
		}
		table.records[record.ID] = record
	}

	return table, nil
}

func parseRow(row []string, columns map[string]int) (domain.FoodRecord, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	number := func(name string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(field(name)), 64)
		if err != nil {
			return 0
		}
		return v
	}

	id, err := strconv.Atoi(strings.TrimSpace(field(colID)))
	if err != nil {
		return domain.FoodRecord{}, false
	}

	return domain.FoodRecord{
		ID:          id,
		Name:        strings.TrimSpace(field(colName)),
		Calories:    number(colCalories),
		Carbs:       number(colCarbs),
		Protein:     number(colProtein),
		Fat:         number(colFat),
		Sodium:      number(colSodium),
		Sugar:       number(colSugar),
		Supplements: field(colSupplements),
	}, true
}

// LoadFile loads the table from a local file.
// A missing file yields an empty table and an error wrapping ErrTableNotFound.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return Empty(), fmt.Errorf("failed to open lookup table: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return Empty(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return table, nil
}

// LoadObject loads the table from object storage.
// A missing object yields an empty table and an error wrapping ErrTableNotFound.
func LoadObject(ctx context.Context, src ObjectSource, key string) (*Table, error) {
	body, err := src.Download(ctx, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), fmt.Errorf("%w: object %s", ErrTableNotFound, key)
		}
		return Empty(), fmt.Errorf("failed to download lookup table: %w", err)
	}
	defer body.Close()

	table, err := Parse(body)
	if err != nil {
		return Empty(), fmt.Errorf("failed to parse object %s: %w", key, err)
	}
	return table, nil
}
