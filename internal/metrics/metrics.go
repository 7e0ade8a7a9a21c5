// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RealtimeCollector はリアルタイム配信のメトリクス収集インターフェース。
// realtimeパッケージのHubから利用する。
type RealtimeCollector interface {
	RecordConnectionOpened()
	RecordConnectionClosed()
	RecordBroadcast(eventType string)
	RecordDeliveryDrop()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus    *prometheus.CounterVec
	httpDuration  prometheus.Histogram
	wsConnections prometheus.Gauge
	broadcasts    *prometheus.CounterVec
	deliveryDrops prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kizuna_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kizuna_http_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kizuna_ws_connections",
			Help: "現在のWebSocket接続数",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kizuna_broadcasts_total",
			Help: "イベント種別ごとのブロードキャスト数",
		}, []string{"event_type"}),
		deliveryDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kizuna_delivery_drops_total",
			Help: "配信失敗により切断されたWebSocket接続の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.httpDuration,
		c.wsConnections,
		c.broadcasts,
		c.deliveryDrops,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPDuration はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordHTTPDuration(duration time.Duration) {
	c.httpDuration.Observe(duration.Seconds())
}

// RecordConnectionOpened はWebSocket接続の確立を記録する。
func (c *Collector) RecordConnectionOpened() {
	c.wsConnections.Inc()
}

// RecordConnectionClosed はWebSocket接続の切断を記録する。
func (c *Collector) RecordConnectionClosed() {
	c.wsConnections.Dec()
}

// RecordBroadcast はイベントのブロードキャストを記録する。
func (c *Collector) RecordBroadcast(eventType string) {
	c.broadcasts.WithLabelValues(eventType).Inc()
}

// RecordDeliveryDrop は配信失敗による接続破棄を記録する。
func (c *Collector) RecordDeliveryDrop() {
	c.deliveryDrops.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
