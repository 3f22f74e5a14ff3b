package tables

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseDelimited parses a delimited table, detecting the separator (; , or
// tab) from the header line and stripping a UTF-8 byte-order mark when
// present. Rows may have ragged lengths; the normalizer pads on access.
func parseDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited table: %w", err)
	}
	return rows, nil
}

// detectDelimiter counts candidate separators on the first line and picks
// the most frequent one, defaulting to a comma.
func detectDelimiter(data []byte) rune {
	header := string(data)
	if idx := strings.IndexAny(header, "\r\n"); idx >= 0 {
		header = header[:idx]
	}

	best := ','
	bestCount := strings.Count(header, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}
