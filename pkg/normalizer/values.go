// pkg/normalizer/values.go
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the canonical timezone-naive textual form all source
// timestamps are normalized to. Offsets are dropped; the wall-clock reading
// is kept. Known, accepted lossy conversion.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampFormats are the source representations we accept, tried in order.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toString converts a document field to string, with absence as "".
func toString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toFloat attempts to convert a document field to float64.
func toFloat(v interface{}) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}

	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(cleaned, 64)
	case []byte:
		return toFloat(string(val))
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// coerceNumber standardizes a numeric field to a canonical decimal string.
// Absent values become "". Values that do not parse as numbers are passed
// through verbatim; classifying them is the validator's job.
func coerceNumber(v interface{}) string {
	if v == nil {
		return ""
	}

	str := toString(v)
	if strings.TrimSpace(str) == "" {
		return ""
	}

	f, err := toFloat(v)
	if err != nil {
		return str
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// canonicalTimestamp parses any accepted source timestamp representation and
// renders it in TimestampLayout. Returns ok=false when the value is present
// but unparseable.
func canonicalTimestamp(v interface{}) (string, bool) {
	if v == nil {
		return "", true
	}

	switch val := v.(type) {
	case time.Time:
		return val.Format(TimestampLayout), true
	case string, []byte:
		cleaned := strings.TrimSpace(toString(val))
		if cleaned == "" {
			return "", true
		}
		for _, format := range timestampFormats {
			if t, err := time.Parse(format, cleaned); err == nil {
				return t.Format(TimestampLayout), true
			}
		}
		return "", false
	case float64:
		// numeric epoch seconds
		return time.Unix(int64(val), 0).UTC().Format(TimestampLayout), true
	default:
		return "", false
	}
}
