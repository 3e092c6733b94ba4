package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/helixml/pulse/domain/ingest"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Delimiter separates fields in the export.
const Delimiter = ';'

// ErrEmptyTable indicates the payload had no header row.
var ErrEmptyTable = errors.New("table has no header row")

// ReadTable parses a semicolon-delimited payload. The first record is the
// header. A leading byte order mark is dropped, and rows shorter than the
// header are padded with empty values.
func ReadTable(data []byte) ([]ingest.Row, error) {
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []ingest.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		values := make(map[string]string, len(header))
		for i, name := range header {
			if _, seen := values[name]; seen {
				continue
			}
			if i < len(record) {
				values[name] = record[i]
			} else {
				values[name] = ""
			}
		}
		rows = append(rows, ingest.Row{Number: len(rows) + 1, Values: values})
	}
	return rows, nil
}
