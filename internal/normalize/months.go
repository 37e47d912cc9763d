package normalize

import (
	"strconv"
	"strings"
	"time"
)

// GenitiveMonths are the Russian month names as written in "19 июня 2025",
// January first.
var GenitiveMonths = []string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var monthByName = func() map[string]time.Month {
	m := make(map[string]time.Month, len(GenitiveMonths))
	for i, name := range GenitiveMonths {
		m[name] = time.Month(i + 1)
	}
	return m
}()

// parseMonthName reads "D <genitive month> YYYY". Out-of-range days are
// rejected rather than rolled into the next month.
func parseMonthName(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 || len(parts[2]) != 4 {
		return time.Time{}, false
	}
	month, ok := monthByName[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
