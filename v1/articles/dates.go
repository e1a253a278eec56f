package articles

import (
	"fmt"
	"time"
)

// DateLayout is the external date representation.
const DateLayout = "2006-01-02"

// EncodeDate parses a YYYY-MM-DD string and returns its sortable integer
// form year*10000 + month*100 + day.
func EncodeDate(s string) (int64, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return 0, dateError()
	}
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day()), nil
}

// DecodeDate turns a YYYYMMDD integer back into a YYYY-MM-DD string.
// Integers that do not name a real calendar day are rejected.
func DecodeDate(v int64) (string, error) {
	year, month, day := int(v/10000), int(v/100%100), int(v%100)
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if v <= 0 || t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("articles: %d is not a YYYYMMDD date", v)
	}
	return t.Format(DateLayout), nil
}
