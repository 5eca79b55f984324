package service

import (
	"errors"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_operations_total",
			Help: "Article lifecycle operations by outcome",
		},
		[]string{"operation", "result"},
	)

	articleStatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_status_transitions_total",
			Help: "Committed article status transitions",
		},
		[]string{"from", "to"},
	)

	articleLockConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "article_lock_conflicts_total",
			Help: "Writes rejected because another editor holds the lock",
		},
	)

	articleLockTakeoversTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "article_lock_takeovers_total",
			Help: "Expired locks taken over by another editor",
		},
	)
)

// observe records the outcome of one public operation.
func observe(operation string, err error) {
	articleOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	case errors.Is(err, common.ErrForbidden):
		return "forbidden"
	case errors.Is(err, common.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
