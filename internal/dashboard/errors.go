package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/external/gas"
)

// Card texts for provider failures.
const (
	MsgFetchFailed   = "無法取得資料"
	MsgMissingFields = "缺少資料欄位"
	MsgNoTickers     = "無法取得標的清單"
)

// ErrTickerNotFound is returned when a code is not on the watch-list.
var ErrTickerNotFound = errors.New("ticker not found")

// describeError maps a provider error to the text shown on the card and its reason.
func describeError(err error) (string, evaluation.Reason) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return MsgFetchFailed, evaluation.ReasonTransportError
	}

	e, ok := gas.AsError(err)
	if !ok {
		return MsgFetchFailed, evaluation.ReasonTransportError
	}

	switch e.Kind {
	case gas.KindMissingEndpoint:
		return gas.MsgMissingEndpoint, evaluation.ReasonMissingEndpoint
	case gas.KindTransport:
		if e.Status != 0 {
			return fmt.Sprintf("Upstream error (status %d)", e.Status), evaluation.ReasonTransportError
		}
		return MsgFetchFailed, evaluation.ReasonTransportError
	case gas.KindMissingFields:
		if e.Message != "" {
			return e.Message, evaluation.ReasonMissingFields
		}
		return MsgMissingFields, evaluation.ReasonMissingFields
	case gas.KindUpstream:
		if e.Status == http.StatusNotFound {
			return gas.MsgUnsupported, evaluation.ReasonUpstreamError
		}
		if e.Message != "" {
			return e.Message, evaluation.ReasonUpstreamError
		}
		return evaluation.TextUpstreamError, evaluation.ReasonUpstreamError
	default:
		return MsgFetchFailed, evaluation.ReasonTransportError
	}
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	if e, ok := gas.AsError(err); ok {
		return string(e.Kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "Canceled"
	}
	return "Unknown"
}
