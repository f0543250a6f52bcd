package checks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheReport is the result of pinging Redis.
type CacheReport struct {
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// CheckCache pings rdb.
func CheckCache(ctx context.Context, rdb *redis.Client) *CacheReport {
	if rdb == nil {
		return &CacheReport{Error: "redis is not configured"}
	}
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	report := &CacheReport{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Reachable = true
	return report
}
