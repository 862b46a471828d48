package health

import (
	"context"
	"runtime"
	"time"
)

// CatalogCheck reports the graphs available to the query endpoint. An empty
// export directory is degraded; a failing count is unhealthy.
func CatalogCheck(count func() (int, error)) CheckFunc {
	return func() Check {
		check := Check{Name: "catalog", Details: make(map[string]any)}
		n, err := count()
		check.Details["graphs"] = n
		switch {
		case err != nil:
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		case n == 0:
			check.Status = StatusDegraded
			check.Message = "No graphs exported"
		default:
			check.Status = StatusHealthy
		}
		return check
	}
}

// DatabaseCheck pings the run-log database within timeout.
func DatabaseCheck(ping func(context.Context) error, timeout time.Duration) CheckFunc {
	return func() Check {
		check := Check{Name: "database"}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}
		return check
	}
}

// MemoryCheck reports heap usage; above 90% of the runtime's reserved
// memory is degraded.
func MemoryCheck() CheckFunc {
	return func() Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return memoryCheck(m.Alloc, m.Sys)
	}
}

func memoryCheck(alloc, sys uint64) Check {
	check := Check{
		Name: "memory",
		Details: map[string]any{
			"alloc_bytes": alloc,
			"sys_bytes":   sys,
		},
		Status:  StatusHealthy,
		Message: "Memory usage normal",
	}
	if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
		check.Status = StatusDegraded
		check.Message = "High memory usage"
	}
	return check
}
