package service

import (
	"strings"

	"bookit/pkg/apperrors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var bookingOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookit_booking_operations_total",
		Help: "Booking and review engine operations by outcome.",
	},
	[]string{"op", "result"},
)

func init() { prometheus.MustRegister(bookingOps) }

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(apperrors.KindOf(err)))
}

// observe counts the outcome of op and logs rejections; store failures log at error.
func observe(l *zap.Logger, op string, err error, fields ...zap.Field) {
	bookingOps.WithLabelValues(op, resultOf(err)).Inc()
	if err == nil {
		return
	}
	fields = append(fields, zap.String("op", op), zap.Error(err))
	if apperrors.KindOf(err) == apperrors.KindInternal {
		l.Error("operation failed", fields...)
		return
	}
	l.Warn("operation rejected", fields...)
}
