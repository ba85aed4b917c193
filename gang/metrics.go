/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gang

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for registry operations.
var meter = otel.Meter("gangwars.gang")

var (
	operationLatency metric.Float64Histogram
	operationTotal   metric.Int64Counter
	gangCount        metric.Int64Gauge
	memberCount      metric.Int64Gauge

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		operationLatency, err = meter.Float64Histogram(
			"gang_operation_duration_seconds",
			metric.WithDescription("Duration of gang registry operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		operationTotal, err = meter.Int64Counter(
			"gang_operation_total",
			metric.WithDescription("Total number of gang registry operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		gangCount, err = meter.Int64Gauge(
			"gang_count",
			metric.WithDescription("Current number of gangs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		memberCount, err = meter.Int64Gauge(
			"gang_member_count",
			metric.WithDescription("Current number of players in a gang"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordOperation records metrics for a registry operation.
func recordOperation(ctx context.Context, operation string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	)
	operationLatency.Record(ctx, duration.Seconds(), attrs)
	operationTotal.Add(ctx, 1, attrs)
}

// recordGangCount records the current registry size.
func recordGangCount(ctx context.Context, gangs, members int) {
	if err := initMetrics(); err != nil {
		return
	}
	gangCount.Record(ctx, int64(gangs))
	memberCount.Record(ctx, int64(members))
}
