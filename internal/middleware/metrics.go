package middleware

import (
	"net/http"
	"time"
)

// HTTPCollector はHTTPメトリクス収集に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type HTTPCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPDuration(duration time.Duration)
}

// NewMetricsMiddleware はリクエストのステータスコードと処理時間を
// 記録するミドルウェアを返す。
func NewMetricsMiddleware(collector HTTPCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordHTTPDuration(time.Since(start))
		})
	}
}
