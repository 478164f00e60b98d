// Package csvimport turns uploaded CSV files into finance import rows.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/finance"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
)

// MaxSize upper bound on an uploaded file.
const MaxSize = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmpty is returned for a file without a header row.
var ErrEmpty = errors.New("csv: file is empty")

// Read parses r into rows keyed by lower-cased header. Input that is not valid UTF-8
// is decoded as Windows-1252 (spreadsheet exports); a leading BOM is dropped.
// A malformed line becomes a row carrying Err; reading continues with the next line.
func Read(r io.Reader) ([]finance.ImportRow, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("csv: read: %w", err)
	}
	if len(raw) > MaxSize {
		return nil, fmt.Errorf("csv: file larger than %d bytes", MaxSize)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		if raw, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw); err != nil {
			return nil, fmt.Errorf("csv: decode windows-1252: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("csv: header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []finance.ImportRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rows = append(rows, finance.ImportRow{
				Line: line,
				Err:  domain.Validation("malformed row (line %d, column %d): %v", perr.Line, perr.Column, perr.Err),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", line, err)
		}
		fields := make(map[string]string, len(header))
		for i, v := range rec {
			if i < len(header) && header[i] != "" {
				fields[header[i]] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, finance.ImportRow{Line: line, Fields: fields})
	}
	return rows, nil
}
