package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
)

// PrometheusMiddleware wraps every mediator dispatch with duration and
// success/failure recording.
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := requestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(name, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// requestName strips the pointer and package qualifier from a request's
// reflected type, e.g. "*shop.ExecuteTradeCommand" becomes
// "ExecuteTradeCommand".
func requestName(request common.Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	parts := strings.Split(fullName, ".")
	return parts[len(parts)-1]
}
