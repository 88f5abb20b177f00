package monitoring

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	nuts "github.com/vaudience/go-nuts"
)

// Service keeps in-process event counters. It exists so best-effort
// side effects (notification fan-out, photo delivery, cascade cleanup)
// stay observable even though their failures are never propagated.
type Service struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{
		counters: make(map[string]int64),
	}
}

// RecordEvent increments the counter for an event. Labels become part
// of the counter key in a stable order.
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	key := counterKey(eventName, labels)

	s.mu.Lock()
	s.counters[key]++
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] Event %s recorded", key)
}

// Snapshot returns a copy of all counters.
func (s *Service) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

func counterKey(eventName string, labels map[string]string) string {
	if len(labels) == 0 {
		return eventName
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, labels[k]))
	}
	return eventName + "{" + strings.Join(parts, ",") + "}"
}
