package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TTSQueryTime = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "gateway",
	Subsystem: "tts",
	Name:      "request_seconds",
})

var TTSErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gateway",
	Subsystem: "tts",
	Name:      "errors_total",
}, []string{"err_code"})

var TTSRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gateway",
	Subsystem: "tts",
	Name:      "requests_total",
}, []string{"status"})

var VoiceListErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gateway",
	Subsystem: "voices",
	Name:      "errors_total",
})
