package evaluation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendwatch/internal/watchlist"
)

// 2023-11-14 22:13:20 UTC, 2023-11-15 in Taipei.
const baseTS int64 = 1700000000

func quoteOf(values ...float64) *RawQuote {
	q := &RawQuote{Status: QuoteStatusOK, Source: "yahoo"}
	for i, v := range values {
		q.Close = append(q.Close, ptr(v))
		q.Timestamp = append(q.Timestamp, baseTS+int64(i)*86400)
	}
	return q
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ticker(s watchlist.Strategy) watchlist.Ticker {
	return watchlist.Ticker{Code: "0050", Name: "ETF", Strategy: s, Provider: "gas", Symbol: "0050.TW"}
}

func labels(ms []Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Label
	}
	return out
}

func TestEvaluate_ShortReadyAtEleven(t *testing.T) {
	e := NewEvaluator(time.UTC)

	res := e.Evaluate(ticker(watchlist.StrategyShort), quoteOf(repeat(100, 11)...))

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 11, res.Plan.RequiredLength)
	assert.Equal(t, 100.0, *res.PrimaryMA)
	assert.Equal(t, 100.0, *res.SecondaryMA)
	assert.Equal(t, 0.0, *res.DeviationPercent)
	assert.Equal(t, SignalYellow, res.Signal)
	assert.Equal(t, TextApproaching, res.StatusText)
	assert.Equal(t, []string{"MA10", "MA5", LabelDeviation, LabelLastUpdate, LabelSource}, labels(res.Metrics))
	assert.Empty(t, res.Reason)
}

func TestEvaluate_MidSignals(t *testing.T) {
	tests := []struct {
		name       string
		closes     []float64
		wantMA     float64
		wantDev    float64
		wantTrend  Trend
		wantSignal Signal
		wantText   string
	}{
		{
			name:       "trending up",
			closes:     append(repeat(100, 20), 110),
			wantMA:     100.5,
			wantDev:    9.45,
			wantTrend:  TrendUpOrFlat,
			wantSignal: SignalGreen,
			wantText:   TextTrending,
		},
		{
			name:       "above a falling average",
			closes:     append(append([]float64{1000}, repeat(100, 19)...), 110),
			wantMA:     100.5,
			wantDev:    9.45,
			wantTrend:  TrendDown,
			wantSignal: SignalRed,
			wantText:   TextBrokenBelow,
		},
		{
			name:       "broken below",
			closes:     append(repeat(100, 20), 90),
			wantMA:     99.5,
			wantDev:    -9.55,
			wantTrend:  TrendDown,
			wantSignal: SignalRed,
			wantText:   TextBrokenBelow,
		},
	}

	e := NewEvaluator(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Evaluate(ticker(watchlist.StrategyMid), quoteOf(tt.closes...))

			require.Equal(t, StatusOK, res.Status)
			assert.Equal(t, tt.wantMA, *res.PrimaryMA)
			assert.Nil(t, res.SecondaryMA)
			assert.Equal(t, tt.wantDev, *res.DeviationPercent)
			assert.Equal(t, tt.wantTrend, *res.Trend)
			assert.Equal(t, tt.wantSignal, res.Signal)
			assert.Equal(t, tt.wantText, res.StatusText)
			assert.Equal(t, tt.closes[len(tt.closes)-1], *res.Price)
		})
	}
}

func TestEvaluate_Metrics(t *testing.T) {
	e := NewEvaluator(time.UTC)

	res := e.Evaluate(ticker(watchlist.StrategyMid), quoteOf(append(repeat(100, 20), 110)...))

	assert.Equal(t, []Metric{
		{Label: "MA20", Value: "100.50"},
		{Label: LabelDeviation, Value: "+9.45%"},
		{Label: LabelLastUpdate, Value: "2023-12-04"},
		{Label: LabelSource, Value: "yahoo"},
	}, res.Metrics)
}

func TestEvaluate_LongTiers(t *testing.T) {
	e := NewEvaluator(time.UTC)

	t.Run("full history", func(t *testing.T) {
		res := e.Evaluate(ticker(watchlist.StrategyLong), quoteOf(repeat(50, 121)...))
		require.Equal(t, StatusOK, res.Status)
		assert.Equal(t, 50.0, *res.PrimaryMA)
		assert.Equal(t, 50.0, *res.SecondaryMA)
		assert.Equal(t, []string{"MA120", "MA60", LabelDeviation, LabelLastUpdate, LabelSource}, labels(res.Metrics))
	})

	t.Run("degraded to MA60", func(t *testing.T) {
		res := e.Evaluate(ticker(watchlist.StrategyLong), quoteOf(repeat(50, 90)...))
		require.Equal(t, StatusOK, res.Status)
		assert.Equal(t, 60, *res.Plan.PrimaryWindow)
		assert.Nil(t, res.SecondaryMA)
	})

	t.Run("60 samples accumulating without secondary", func(t *testing.T) {
		res := e.Evaluate(ticker(watchlist.StrategyLong), quoteOf(repeat(50, 60)...))
		require.Equal(t, StatusAccumulating, res.Status)
		assert.Equal(t, "資料累積中 (60/61)", res.StatusText)
		require.NotNil(t, res.PrimaryMA, "MA60 is shown while accumulating")
		assert.Equal(t, 50.0, *res.PrimaryMA)
		assert.Nil(t, res.SecondaryMA)
		assert.Nil(t, res.DeviationPercent)
		assert.Nil(t, res.Trend)
		assert.Equal(t, SignalNeutral, res.Signal)
		assert.Equal(t, []string{"MA60", LabelDeviation, LabelLastUpdate, LabelSource}, labels(res.Metrics))
		assert.Equal(t, Placeholder, res.Metrics[1].Value)
	})

	t.Run("30 samples never ok", func(t *testing.T) {
		res := e.Evaluate(ticker(watchlist.StrategyLong), quoteOf(repeat(50, 30)...))
		assert.NotEqual(t, StatusOK, res.Status)
		assert.Equal(t, StatusAccumulating, res.Status)
		assert.Equal(t, "資料累積中 (30/61)", res.StatusText)
		assert.Nil(t, res.PrimaryMA)
		assert.Equal(t, 50.0, *res.Price)
	})
}

func TestEvaluate_MidAccumulating(t *testing.T) {
	e := NewEvaluator(time.UTC)

	res := e.Evaluate(ticker(watchlist.StrategyMid), quoteOf(repeat(10, 20)...))

	require.Equal(t, StatusAccumulating, res.Status)
	assert.Equal(t, "資料累積中 (20/21)", res.StatusText)
	assert.Equal(t, 10.0, *res.PrimaryMA)
	assert.Equal(t, ReasonInsufficientData, res.Reason)
}

func TestEvaluate_NoData(t *testing.T) {
	e := NewEvaluator(time.UTC)
	strategies := []watchlist.Strategy{watchlist.StrategyLong, watchlist.StrategyMid, watchlist.StrategyShort}

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			q := quoteOf(repeat(100, 200)...)
			q.Status = QuoteStatusNoData
			q.LastTradingDate = "2024-01-05"

			res := e.Evaluate(ticker(s), q)

			assert.Equal(t, StatusNoData, res.Status)
			assert.Nil(t, res.Price)
			assert.Nil(t, res.PrimaryMA)
			assert.Nil(t, res.DeviationPercent)
			assert.Equal(t, "2024-01-05", res.LastTradingDate)
			assert.Equal(t, "yahoo", res.Source)

			for _, m := range res.Metrics {
				switch m.Label {
				case LabelLastUpdate:
					assert.Equal(t, "2024-01-05", m.Value)
				case LabelSource:
					assert.Equal(t, "yahoo", m.Value)
				default:
					assert.Equal(t, Placeholder, m.Value, m.Label)
				}
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	withStatus := func(status, msg string) *RawQuote {
		q := quoteOf(repeat(100, 30)...)
		q.Status = status
		q.Error = msg
		q.LastTradingDate = "2024-01-05"
		return q
	}
	missingSeries := quoteOf()
	missingSeries.Close = nil
	allNull := &RawQuote{Status: QuoteStatusOK, Close: []*float64{nil, ptr(0)}, Timestamp: []int64{1, 2}}
	nanLast := quoteOf(repeat(100, 30)...)
	nanLast.Close[29] = ptr(math.NaN())

	tests := []struct {
		name       string
		quote      *RawQuote
		wantText   string
		wantReason Reason
		wantDate   string
		wantPrice  bool
	}{
		{"absent quote", nil, TextInsufficient, ReasonMissingFields, "", false},
		{"missing series", missingSeries, TextInsufficient, ReasonMissingFields, "", false},
		{"upstream message", withStatus("error", "Symbol not found"), "Symbol not found", ReasonUpstreamError, "2024-01-05", false},
		{"unknown status", withStatus("pending", ""), TextUpstreamError, ReasonUpstreamError, "2024-01-05", false},
		{"no usable closes", allNull, TextDataError, ReasonInsufficientData, "", false},
		{"non-finite price", nanLast, TextDataError, ReasonInvalidPrice, "2023-12-13", false},
	}

	e := NewEvaluator(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Evaluate(ticker(watchlist.StrategyMid), tt.quote)

			assert.Equal(t, StatusError, res.Status)
			assert.Equal(t, tt.wantText, res.StatusText)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, tt.wantDate, res.LastTradingDate)
			assert.Equal(t, SignalNeutral, res.Signal)
			assert.Nil(t, res.PrimaryMA)
			assert.Nil(t, res.DeviationPercent)
			assert.Equal(t, tt.wantPrice, res.Price != nil)
			assert.Equal(t, Placeholder, res.Metrics[0].Value)
		})
	}
}

func TestEvaluate_ZeroAverageGuard(t *testing.T) {
	closes := []float64{5}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			closes = append(closes, 1)
		} else {
			closes = append(closes, -1)
		}
	}

	res := NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyMid), quoteOf(closes...))

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, TextDataError, res.StatusText)
	assert.Equal(t, ReasonInvalidPrice, res.Reason)
}

func TestEvaluate_DegradedPlanWithoutPrimary(t *testing.T) {
	e := NewEvaluator(time.UTC)
	e.resolve = func(watchlist.Strategy, int) Plan {
		return Plan{RequiredLength: 1, PrimaryLabel: "MA60"}
	}

	res := e.Evaluate(ticker(watchlist.StrategyLong), quoteOf(42, 43))

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, TextAccumulating, res.StatusText)
	require.NotNil(t, res.Price)
	assert.Equal(t, 43.0, *res.Price)
}

func TestEvaluate_SanitizesBeforeCounting(t *testing.T) {
	q := quoteOf(repeat(100, 11)...)
	q.Close[3] = nil
	q.Close[7] = ptr(0)

	res := NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyShort), q)

	assert.Equal(t, StatusAccumulating, res.Status)
	assert.Equal(t, "資料累積中 (9/11)", res.StatusText)
}

func TestEvaluate_TradingDate(t *testing.T) {
	taipei, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	q := quoteOf(repeat(100, 21)...)
	q.Timestamp = q.Timestamp[:20] // last close has no timestamp and is ignored

	utc := NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyMid), q)
	assert.Equal(t, "2023-12-03", utc.LastTradingDate)

	tw := NewEvaluator(taipei).Evaluate(ticker(watchlist.StrategyMid), q)
	assert.Equal(t, "2023-12-04", tw.LastTradingDate)

	last := baseTS
	q.LastTimestamp = &last
	assert.Equal(t, "2023-11-14", NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyMid), q).LastTradingDate)

	q.LastTradingDate = "2024-02-01"
	assert.Equal(t, "2024-02-01", NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyMid), q).LastTradingDate)
}

func TestEvaluate_SourceFallsBackToProvider(t *testing.T) {
	q := quoteOf(repeat(100, 21)...)
	q.Source = ""

	res := NewEvaluator(time.UTC).Evaluate(ticker(watchlist.StrategyMid), q)

	assert.Equal(t, "gas", res.Source)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := NewEvaluator(time.UTC)
	tk := ticker(watchlist.StrategyLong)
	q := quoteOf(append(repeat(80, 125), 95, 97)...)

	first := e.Evaluate(tk, q)
	second := e.Evaluate(tk, q)

	assert.Equal(t, first, second)
}
