package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	twoHour    []string
	twoHourErr error
	daily      string
	dailyErr   error
}

func (f fakeSource) TwoHour(context.Context) ([]string, error) {
	return f.twoHour, f.twoHourErr
}

func (f fakeSource) TwentyFourHour(context.Context) (string, error) {
	return f.daily, f.dailyErr
}

func TestMostCommon(t *testing.T) {
	got, ok := MostCommon([]string{"Cloudy", "Light Rain", "Light Rain", "Cloudy", "Fair"})
	assert.True(t, ok)
	assert.Equal(t, "Cloudy", got)

	_, ok = MostCommon(nil)
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	got := Summary(context.Background(), fakeSource{
		twoHour: []string{"Partly Cloudy (Day)", "Showers", "Partly Cloudy (Day)"},
		daily:   "Thundery Showers",
	})
	assert.Equal(t, "2-Hour weather forecast: Partly Cloudy (Day).\n24-Hour weather forecast: Thundery Showers.", got)
}

func TestSummary_PartialFailure(t *testing.T) {
	got := Summary(context.Background(), fakeSource{
		twoHourErr: errors.New("status code 500"),
		daily:      "Fair",
	})
	assert.Equal(t, "2-Hour weather forecast: Not available due to 'Error: status code 500'.\n24-Hour weather forecast: Fair.", got)

	got = Summary(context.Background(), fakeSource{twoHour: []string{}, dailyErr: errors.New("timeout")})
	assert.Equal(t, "2-Hour weather forecast: Not available due to 'Error: no forecasts'.\n24-Hour weather forecast: Not available due to 'Error: timeout'.", got)
}
