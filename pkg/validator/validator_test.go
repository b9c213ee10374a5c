package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"18:30", 18*time.Hour + 30*time.Minute, true},
		{"18:30:15", 18*time.Hour + 30*time.Minute + 15*time.Second, true},
		{"00:00:00.250000", 250 * time.Millisecond, true},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second, true},
		{"24:00", 0, false},
		{"6pm", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrTimeOfDay, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "18:30:00", FormatTimeOfDay(18*time.Hour+30*time.Minute))
	assert.Equal(t, "00:00:00.250000", FormatTimeOfDay(250*time.Millisecond))
	assert.Equal(t, "09:05:07", FormatTimeOfDay(9*time.Hour+5*time.Minute+7*time.Second))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("29.02.2024")
	assert.Error(t, err)
}

func TestTimeOfDayTag(t *testing.T) {
	type sample struct {
		At *string `validate:"required,timeofday"`
	}
	good, bad := "07:45", "7 45"

	assert.NoError(t, Validate.Struct(sample{At: &good}))
	assert.Error(t, Validate.Struct(sample{At: &bad}))
	assert.Error(t, Validate.Struct(sample{}))
}

func TestFieldNamesFromJSONTags(t *testing.T) {
	type sample struct {
		StartsAt *string `json:"starts_at,omitempty" validate:"required"`
	}

	err := Validate.Struct(sample{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "starts_at", verrs[0].Field())
}
