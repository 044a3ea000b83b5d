package calllog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseValue types a cell string as int64, float64 or string. The empty
// string is a missing value and yields nil.
func ParseValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CellString renders a cell value as text; nil is the empty string.
func CellString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"01-02-06 15:04",
	"1/2/06 15:04",
	"2006-01-02",
	"2006/1/2",
}

// ParseTimestamp interprets a cell as a point in time. Excel serial numbers
// and the textual layouts Excel exports are accepted.
func ParseTimestamp(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, !v.IsZero()
	case int64:
		return serialTime(float64(v))
	case float64:
		return serialTime(v)
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return serialTime(f)
		}
	}
	return time.Time{}, false
}

func serialTime(f float64) (time.Time, bool) {
	return excelTime(f, false)
}

func excelTime(f float64, date1904 bool) (time.Time, bool) {
	if f <= 0 || math.IsNaN(f) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, date1904)
	if err != nil {
		return time.Time{}, false
	}
	// ExcelDateToTime yields UTC wall-clock values; keep the wall clock.
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
}

// ParseDuration returns a call duration in seconds. Numbers are seconds;
// strings may be plain seconds or h:mm:ss / m:ss clock notation.
func ParseDuration(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var secs float64
	for _, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		secs = secs*60 + n
	}
	return secs, true
}
