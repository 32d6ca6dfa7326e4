package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Form Engine Metrics

	// FormSubmissionsTotal 表单提交总数
	FormSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of form submissions",
		},
		[]string{"form_id"},
	)

	// ButtonDispatchTotal 按钮动作分发总数
	ButtonDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "button_dispatch_total",
			Help: "Total number of button action dispatches",
		},
		[]string{"action", "result"},
	)

	// ApprovalResolutionsTotal 审批处理总数
	ApprovalResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_resolutions_total",
			Help: "Total number of approval request resolutions",
		},
		[]string{"status"},
	)

	// DataSource Metrics

	// DataSourceFetchDuration 数据源拉取时长
	DataSourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasource_fetch_duration_seconds",
			Help:    "External datasource fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source_type"},
	)

	// DataSourceFetchErrors 数据源拉取失败总数
	DataSourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasource_fetch_errors_total",
			Help: "Total number of failed datasource fetches",
		},
		[]string{"source_type"},
	)

	// DataSourceCacheHits 数据源缓存命中总数
	DataSourceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "datasource_cache_hits_total",
			Help: "Total number of datasource row cache hits",
		},
	)

	// WebSocket Metrics

	// EventSubscribers 当前事件流连接数
	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_subscribers_total",
			Help: "Current number of connected event stream clients",
		},
	)
)
