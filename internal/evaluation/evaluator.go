package evaluation

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/trendwatch/internal/watchlist"
)

// Evaluator turns a raw quote into a classified Result.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	loc     *time.Location
	resolve func(watchlist.Strategy, int) Plan
}

// NewEvaluator creates an Evaluator that formats trading dates in loc (UTC when nil).
func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{loc: loc, resolve: ResolvePlan}
}

// Evaluate classifies q for ticker t. It never panics: malformed input degrades
// to an error result so one bad symbol cannot abort a watch-list refresh.
func (e *Evaluator) Evaluate(t watchlist.Ticker, q *RawQuote) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = e.failure(ResolvePlan(t.Strategy, 0), failureInfo{
				text:   TextInsufficient,
				reason: ReasonMissingFields,
			})
		}
	}()

	return e.evaluate(t, q)
}

func (e *Evaluator) evaluate(t watchlist.Ticker, q *RawQuote) Result {
	basePlan := e.resolve(t.Strategy, 0)

	if q == nil {
		return e.failure(basePlan, failureInfo{text: TextInsufficient, reason: ReasonMissingFields})
	}

	switch q.Status {
	case QuoteStatusNoData:
		return e.noData(t, basePlan, q)
	case QuoteStatusOK:
	default:
		text := q.Error
		if text == "" {
			text = TextUpstreamError
		}
		return e.failure(basePlan, failureInfo{
			text:   text,
			reason: ReasonUpstreamError,
			date:   e.declaredDate(q),
			source: q.Source,
		})
	}

	if q.Close == nil || q.Timestamp == nil {
		return e.failure(basePlan, failureInfo{text: TextInsufficient, reason: ReasonMissingFields})
	}

	series := Sanitize(q.Timestamp, q.Close)
	price, lastTS, ok := series.Last()
	if !ok {
		return e.failure(basePlan, failureInfo{
			text:   TextDataError,
			reason: ReasonInsufficientData,
			date:   e.declaredDate(q),
			source: q.Source,
		})
	}

	n := series.Len()
	plan := e.resolve(t.Strategy, n)
	date := e.tradingDate(q, lastTS)
	source := sourceOf(q, t)

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return e.failure(plan, failureInfo{
			text:   TextDataError,
			reason: ReasonInvalidPrice,
			date:   date,
			source: source,
		})
	}

	primaryMA := averageFor(series.Closes, plan.PrimaryWindow)
	secondaryMA := averageFor(series.Closes, plan.SecondaryWindow)

	res := Result{
		Price:           floatPtr(price),
		PrimaryMA:       primaryMA,
		SecondaryMA:     secondaryMA,
		Signal:          SignalNeutral,
		LastTradingDate: date,
		Source:          source,
		Plan:            plan,
	}

	if n < plan.RequiredLength {
		res.Status = StatusAccumulating
		res.StatusText = fmt.Sprintf("%s (%d/%d)", TextAccumulating, n, plan.RequiredLength)
		res.Reason = ReasonInsufficientData
		res.Metrics = buildMetrics(res)
		return res
	}

	if primaryMA == nil {
		res.Status = StatusError
		res.StatusText = TextAccumulating
		res.Reason = ReasonInsufficientData
		res.Metrics = buildMetrics(res)
		return res
	}

	deviation, err := Deviation(price, *primaryMA)
	if err != nil {
		return e.failure(plan, failureInfo{
			text:   TextDataError,
			reason: ReasonInvalidPrice,
			date:   date,
			source: source,
		})
	}

	trend := DetermineTrend(series.Closes, *plan.PrimaryWindow)
	signal, text := DetermineSignal(deviation, trend)

	res.Status = StatusOK
	res.StatusText = text
	res.DeviationPercent = floatPtr(deviation)
	res.Trend = &trend
	res.Signal = signal
	res.Metrics = buildMetrics(res)
	return res
}

type failureInfo struct {
	text   string
	reason Reason
	date   string
	source string
}

// failure builds an error result with every metric dashed except date and source.
func (e *Evaluator) failure(plan Plan, f failureInfo) Result {
	res := Result{
		Status:          StatusError,
		StatusText:      f.text,
		Signal:          SignalNeutral,
		LastTradingDate: f.date,
		Source:          f.source,
		Reason:          f.reason,
		Plan:            plan,
	}
	res.Metrics = buildMetrics(res)
	return res
}

func (e *Evaluator) noData(t watchlist.Ticker, plan Plan, q *RawQuote) Result {
	res := Result{
		Status:          StatusNoData,
		StatusText:      TextNoData,
		Signal:          SignalNeutral,
		LastTradingDate: e.declaredDate(q),
		Source:          sourceOf(q, t),
		Reason:          ReasonNoData,
		Plan:            plan,
	}
	res.Metrics = buildMetrics(res)
	return res
}

// declaredDate is the date the provider reported, without looking at the series.
func (e *Evaluator) declaredDate(q *RawQuote) string {
	if q.LastTradingDate != "" {
		return q.LastTradingDate
	}
	if q.LastTimestamp != nil {
		return e.formatDate(*q.LastTimestamp)
	}
	return ""
}

func (e *Evaluator) tradingDate(q *RawQuote, lastTS int64) string {
	if d := e.declaredDate(q); d != "" {
		return d
	}
	return e.formatDate(lastTS)
}

// formatDate renders a unix timestamp in seconds as YYYY-MM-DD.
func (e *Evaluator) formatDate(ts int64) string {
	return time.Unix(ts, 0).In(e.loc).Format("2006-01-02")
}

func sourceOf(q *RawQuote, t watchlist.Ticker) string {
	if q.Source != "" {
		return q.Source
	}
	return t.Provider
}

func averageFor(closes []float64, window *int) *float64 {
	if window == nil {
		return nil
	}
	ma, ok := MovingAverage(closes, *window)
	if !ok {
		return nil
	}
	return floatPtr(ma)
}

func floatPtr(v float64) *float64 {
	return &v
}
