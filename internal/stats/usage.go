package stats

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"gemini-proxy-go/internal/storage"
)

const (
	aggregateTotalKey    = "__system__/total"
	aggregateModelPrefix = "__system__/model/"
)

// UsageStats tracks per-caller and aggregate request counters on top of a
// storage backend. Recording failures are logged, never surfaced to callers.
type UsageStats struct {
	backend storage.Backend
}

// UsageRecord represents usage counters for one caller key.
type UsageRecord struct {
	Key             string
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
}

// NewUsageStats creates a usage tracker over the given backend.
func NewUsageStats(backend storage.Backend) *UsageStats {
	return &UsageStats{backend: backend}
}

// Record counts one proxied request for the caller key and the aggregate
// buckets. An empty caller key still counts toward the aggregates.
func (u *UsageStats) Record(ctx context.Context, callerKey, model string, success bool) {
	if u == nil || u.backend == nil {
		return
	}

	record := func(key string) {
		if key == "" {
			return
		}
		field := "failed_requests"
		if success {
			field = "success_requests"
		}
		if err := u.backend.IncrementUsage(ctx, key, "total_requests", 1); err != nil {
			log.WithError(err).Warn("usage: increment total failed")
			return
		}
		if err := u.backend.IncrementUsage(ctx, key, field, 1); err != nil {
			log.WithError(err).Warn("usage: increment outcome failed")
		}
	}

	record(callerKey)
	record(aggregateTotalKey)
	if m := strings.TrimSpace(model); m != "" {
		record(aggregateModelPrefix + m)
	}
}

// GetUsage retrieves counters for one caller key.
func (u *UsageStats) GetUsage(ctx context.Context, key string) (*UsageRecord, error) {
	data, err := u.backend.GetUsage(ctx, key)
	if err != nil {
		return nil, err
	}
	return recordFromFields(key, data), nil
}

// GetAllUsage retrieves counters for every known key, aggregates included.
func (u *UsageStats) GetAllUsage(ctx context.Context) (map[string]*UsageRecord, error) {
	all, err := u.backend.ListUsage(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*UsageRecord, len(all))
	for key, fields := range all {
		out[key] = recordFromFields(key, fields)
	}
	return out, nil
}

// ResetUsage clears counters for one caller key.
func (u *UsageStats) ResetUsage(ctx context.Context, key string) error {
	return u.backend.ResetUsage(ctx, key)
}

// ResetAll clears every usage key, aggregates included.
func (u *UsageStats) ResetAll(ctx context.Context) error {
	all, err := u.backend.ListUsage(ctx)
	if err != nil {
		return err
	}
	for key := range all {
		if err := u.backend.ResetUsage(ctx, key); err != nil {
			log.WithError(err).Errorf("usage: reset failed for %s", key)
		}
	}
	return nil
}

// IsAggregateKey reports whether a usage key is one of the aggregate buckets.
func IsAggregateKey(key string) bool {
	return key == aggregateTotalKey || strings.HasPrefix(key, aggregateModelPrefix)
}

func recordFromFields(key string, fields map[string]int64) *UsageRecord {
	return &UsageRecord{
		Key:             key,
		TotalRequests:   fields["total_requests"],
		SuccessRequests: fields["success_requests"],
		FailedRequests:  fields["failed_requests"],
	}
}

// SuccessRate returns the percentage of successful requests.
func (r *UsageRecord) SuccessRate() float64 {
	if r.TotalRequests == 0 {
		return 0
	}
	return float64(r.SuccessRequests) / float64(r.TotalRequests) * 100
}
