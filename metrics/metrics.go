package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatRequestsTotal counts inbound chat requests, valid or not.
	ChatRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partschat_chat_requests_total",
		Help: "Total number of chat requests received.",
	})

	// ChatAnswersTotal counts produced answers by source, so the silent
	// LLM-to-fallback degradation stays observable.
	ChatAnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partschat_chat_answers_total",
		Help: "Total number of chat answers produced, labelled by answer source.",
	}, []string{"source"})

	// SearchQueriesTotal counts relevance searches by mode (vector or keyword).
	SearchQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partschat_search_queries_total",
		Help: "Total number of relevance searches, labelled by search mode.",
	}, []string{"mode"})
)
