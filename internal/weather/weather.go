package weather

import (
	"context"
	"fmt"
	"gpttransit/src/logger"

	"golang.org/x/sync/errgroup"
)

// Source fetches the raw forecasts.
type Source interface {
	TwoHour(ctx context.Context) ([]string, error)
	TwentyFourHour(ctx context.Context) (string, error)
}

// MostCommon returns the most frequent forecast; the first one seen wins ties.
func MostCommon(forecasts []string) (string, bool) {
	counts := make(map[string]int, len(forecasts))
	for _, f := range forecasts {
		counts[f]++
	}
	best, bestCount := "", 0
	for _, f := range forecasts {
		if counts[f] > bestCount {
			best, bestCount = f, counts[f]
		}
	}
	return best, bestCount > 0
}

// Summary fetches both forecasts concurrently. A failing half is reported in
// place rather than failing the whole summary.
func Summary(ctx context.Context, src Source) string {
	var (
		g              errgroup.Group
		twoHour, daily string
	)
	g.Go(func() error {
		forecasts, err := src.TwoHour(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("2-hour forecast unavailable")
			twoHour = unavailable(err)
			return nil
		}
		if common, ok := MostCommon(forecasts); ok {
			twoHour = common
		} else {
			twoHour = unavailable(fmt.Errorf("no forecasts"))
		}
		return nil
	})
	g.Go(func() error {
		forecast, err := src.TwentyFourHour(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("24-hour forecast unavailable")
			daily = unavailable(err)
			return nil
		}
		daily = forecast
		return nil
	})
	_ = g.Wait()

	return fmt.Sprintf("2-Hour weather forecast: %s.\n24-Hour weather forecast: %s.", twoHour, daily)
}

func unavailable(err error) string {
	return fmt.Sprintf("Not available due to 'Error: %v'", err)
}
