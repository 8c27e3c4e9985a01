package agent

import (
	"sync/atomic"
	"time"
)

type HealthStatus struct {
	backendConnected atomic.Bool
	lastSampleAt     atomic.Int64
}

func NewHealthStatus() *HealthStatus {
	h := &HealthStatus{}
	h.backendConnected.Store(false)
	return h
}

func (h *HealthStatus) SetBackendConnected(ok bool) {
	h.backendConnected.Store(ok)
}

func (h *HealthStatus) MarkSample(ts time.Time) {
	h.lastSampleAt.Store(ts.UnixNano())
}

func (h *HealthStatus) BackendConnected() bool {
	return h.backendConnected.Load()
}

func (h *HealthStatus) LastSampleAt() (time.Time, bool) {
	v := h.lastSampleAt.Load()
	if v <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, v).UTC(), true
}

func (h *HealthStatus) Snapshot() map[string]any {
	out := map[string]any{
		"backend_connected": h.backendConnected.Load(),
	}
	if v := h.lastSampleAt.Load(); v > 0 {
		out["last_sample_at"] = time.Unix(0, v).UTC()
	}
	return out
}
