package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newDates() *DateNormalizer {
	return NewDateNormalizer(func() time.Time { return fixedNow })
}

func TestNormalize_StandardFormats(t *testing.T) {
	tests := []string{
		"19.06.2025",
		"2025-06-19",
		"19/06/2025",
		"19-06-2025",
		"19.06.25",
		"19/06/25",
		"19-06-25",
		" 19.06.2025 ",
	}
	n := newDates()
	for _, in := range tests {
		got, flags := n.Normalize(in)
		assert.Equal(t, "2025-06-19T00:00:00Z", got.Format(time.RFC3339), "Normalize(%q)", in)
		assert.Empty(t, flags, "Normalize(%q)", in)
	}
}

func TestNormalize_SingleDigitParts(t *testing.T) {
	got, flags := newDates().Normalize("1.6.2025")
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Empty(t, flags)
}

func TestNormalize_DayFirst(t *testing.T) {
	got, _ := newDates().Normalize("03/04/2025")
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestNormalize_PermissiveFallback(t *testing.T) {
	got, flags := newDates().Normalize("June 19, 2025")
	assert.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), got)
	assert.Empty(t, flags)
}

func TestNormalize_MonthName(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"5 июня 2025", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
		{"19 Декабря 2024", time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC)},
		{" 1  января  2026 ", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	n := newDates()
	for _, tt := range tests {
		got, flags := n.Normalize(tt.in)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.in)
		assert.Empty(t, flags, "Normalize(%q)", tt.in)
	}
}

func TestNormalize_MonthNameOutOfRange(t *testing.T) {
	got, flags := newDates().Normalize("31 июня 2025")
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, []model.QualityFlag{model.FlagDateAmbiguous}, flags)
}

func TestNormalize_ShortYears(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"missing year takes the current one", "Feb 12", time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)},
		{"day and month only", "1.1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"two-digit year kept", "0025-06-19", time.Date(25, 6, 19, 0, 0, 0, 0, time.UTC)},
	}
	n := newDates()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := n.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []model.QualityFlag{model.FlagDateAmbiguous}, flags)
		})
	}
}

func TestNormalize_TimeIsZeroed(t *testing.T) {
	got, _ := newDates().Normalize("2025-06-19 14:30:00")
	assert.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalize_Invalid(t *testing.T) {
	n := newDates()
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"invalid_date", "", "   ", "32.13.2025"} {
		got, flags := n.Normalize(in)
		assert.Equal(t, today, got, "Normalize(%q)", in)
		assert.Equal(t, []model.QualityFlag{model.FlagDateAmbiguous}, flags, "Normalize(%q)", in)
	}
}

func TestNormalizeField(t *testing.T) {
	n := newDates()

	got, flags := n.NormalizeField(model.TextField("19.06.2025"))
	assert.Equal(t, 19, got.Day())
	assert.Empty(t, flags)

	for _, f := range []model.Field{{}, model.NumberField(20250619), {Kind: model.FieldInvalid}} {
		_, flags := n.NormalizeField(f)
		assert.Contains(t, flags, model.FlagDateAmbiguous)
	}
}

func TestValid(t *testing.T) {
	n := newDates()
	assert.True(t, n.Valid("19.06.2025"))
	assert.False(t, n.Valid("invalid_date"))
}
