package evaluation

// Quote status values reported by the provider.
const (
	QuoteStatusOK     = "ok"
	QuoteStatusNoData = "no_data"
	QuoteStatusError  = "error"
)

// RawQuote is the provider's daily close series for one symbol.
// Close and Timestamp are paired by index; a JSON null close decodes to nil.
type RawQuote struct {
	Status          string     `json:"status"`
	Close           []*float64 `json:"close"`
	Timestamp       []int64    `json:"timestamp"`
	Error           string     `json:"error,omitempty"`
	Source          string     `json:"source,omitempty"`
	LastTradingDate string     `json:"lastTradingDate,omitempty"`
	LastTimestamp   *int64     `json:"lastTimestamp,omitempty"`
}

// Status is the classification of an evaluation.
type Status string

const (
	StatusOK           Status = "ok"
	StatusAccumulating Status = "accumulating"
	StatusNoData       Status = "no_data"
	StatusError        Status = "error"
)

// Trend is the direction of the primary moving average.
type Trend string

const (
	TrendUpOrFlat Trend = "UP_OR_FLAT"
	TrendDown     Trend = "DOWN"
)

// Signal is the tri-color classification; NEUTRAL for anything that is not ok.
type Signal string

const (
	SignalGreen   Signal = "GREEN"
	SignalYellow  Signal = "YELLOW"
	SignalRed     Signal = "RED"
	SignalNeutral Signal = "NEUTRAL"
)

// Reason names the condition behind a non-ok result.
type Reason string

const (
	ReasonMissingEndpoint  Reason = "missing_endpoint"
	ReasonTransportError   Reason = "transport_error"
	ReasonMissingFields    Reason = "missing_fields"
	ReasonUpstreamError    Reason = "upstream_error"
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonInvalidPrice     Reason = "invalid_price"
	ReasonNoData           Reason = "no_data"
)

// Metric is one labelled display value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Result is the display-ready outcome of evaluating one quote.
type Result struct {
	Status           Status   `json:"status"`
	StatusText       string   `json:"statusText"`
	Price            *float64 `json:"price"`
	PrimaryMA        *float64 `json:"primaryMA"`
	SecondaryMA      *float64 `json:"secondaryMA"`
	DeviationPercent *float64 `json:"deviationPercent"`
	Trend            *Trend   `json:"trend"`
	Signal           Signal   `json:"signal"`
	LastTradingDate  string   `json:"lastTradingDate"`
	Source           string   `json:"source"`
	Reason           Reason   `json:"reason,omitempty"`
	Plan             Plan     `json:"plan"`
	Metrics          []Metric `json:"metrics"`
}

// Status texts shown to the user.
const (
	TextInsufficient  = "資料不足"
	TextDataError     = "資料錯誤"
	TextAccumulating  = "資料累積中"
	TextNoData        = "無資料"
	TextUpstreamError = "Upstream error"

	TextTrending    = "趨勢"
	TextApproaching = "接近"
	TextBrokenBelow = "跌破"
)

// Metric labels that do not depend on the plan.
const (
	LabelDeviation  = "乖離率"
	LabelLastUpdate = "更新日期"
	LabelSource     = "來源"
)

// Placeholder is rendered for any absent value.
const Placeholder = "-"
