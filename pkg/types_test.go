package pkg

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFare_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Fare
	}{
		{"quoted", `{"fare":"1.73"}`, "1.73"},
		{"number", `{"fare":2.1}`, "2.1"},
		{"null", `{"fare":null}`, ""},
		{"missing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it Itinerary
			require.NoError(t, sonic.UnmarshalString(tt.body, &it))
			assert.Equal(t, tt.want, it.Fare)
		})
	}
}

func TestDayTypeOf(t *testing.T) {
	assert.Equal(t, Weekday, DayTypeOf(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, WeekendHoliday, DayTypeOf(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)))
}
