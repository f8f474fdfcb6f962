package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// encodeRow marshals the row as a JSON object, with its keys in the order of
// cols. Keys missing from the row are skipped, and non finite floats, having
// no JSON representation, are written as null.
func encodeRow(cols []string, row Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, c := range cols {
		v, ok := row[c]
		if !ok {
			continue
		}
		if f, isFloat := v.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = nil
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
		key, _ := json.Marshal(c)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
