package google

import (
	"pjes/internal/core"
	ports "pjes/internal/sheets"
)

// parseValues converts a values matrix as returned by the Sheets API into
// records. An empty range yields no records and no error.
func parseValues(values [][]interface{}) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, nil
	}
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = ports.ToStrings(v)
	}
	return ports.DecodeRows(rows)
}
