// Package metrics 提供基于Prometheus的指标收集
//
// # 指标清单
//
// HTTP：
//   - http_requests_total{method,path,status}（Counter）
//   - http_request_duration_seconds{method,path}（Histogram）
//   - http_requests_in_progress（Gauge）
//
// 数据访问：
//   - member_queries_total{query}（Counter）：每个仓储查询方法一个标签值
//   - member_bulk_updated_rows_total（Counter）：批量更新影响的行数
//   - persistence_context_flushes_total{result}（Counter）：持久化上下文flush次数
//   - persistence_context_clears_total{reason}（Counter）：持久化上下文被清空的次数
//   - username_cache_requests_total{result}（Counter）：用户名缓存命中/未命中
//
// # 使用方式
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 未调用InitMetrics时所有辅助函数都是空操作（单元测试不需要初始化指标）
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// MemberQueriesTotal 会员仓储查询次数
	MemberQueriesTotal *prometheus.CounterVec

	// BulkUpdatedRowsTotal 批量更新影响行数
	BulkUpdatedRowsTotal prometheus.Counter

	// PersistenceFlushesTotal 持久化上下文flush次数
	PersistenceFlushesTotal *prometheus.CounterVec

	// PersistenceClearsTotal 持久化上下文清空次数
	PersistenceClearsTotal *prometheus.CounterVec

	// UsernameCacheRequests 用户名缓存请求
	UsernameCacheRequests *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标并注册到默认Registry
// 重复调用是安全的
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		MemberQueriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_queries_total",
				Help: "会员仓储查询次数",
			},
			[]string{"query"},
		)

		BulkUpdatedRowsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "member_bulk_updated_rows_total",
				Help: "批量更新影响的会员行数",
			},
		)

		PersistenceFlushesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persistence_context_flushes_total",
				Help: "持久化上下文flush次数",
			},
			[]string{"result"}, // success | failure
		)

		PersistenceClearsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persistence_context_clears_total",
				Help: "持久化上下文清空次数",
			},
			[]string{"reason"}, // bulk_update | tx_end | manual
		)

		UsernameCacheRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "username_cache_requests_total",
				Help: "用户名缓存请求次数",
			},
			[]string{"result"}, // hit | miss | error | skipped
		)
	})
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	if counter == nil {
		return
	}
	counter.Add(v)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	gauge.Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}

// CountQuery 记录一次仓储查询
func CountQuery(name string) {
	IncCounterVec(MemberQueriesTotal, map[string]string{"query": name})
}
