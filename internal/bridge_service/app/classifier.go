package app

import (
	"strconv"
	"strings"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// ShouldProcess decides whether a raw event enters the pipeline. It has no
// side effects; a rejected event is simply dropped.
//
// Rejected: status/story updates, empty or whitespace-only bodies, bodies
// that are exactly the event's raw timestamp (an upstream anomaly
// occasionally leaks the timestamp into the body), and broadcast messages
// not authored by the local account.
func ShouldProcess(ev *domain.MessageEvent) bool {
	if ev == nil || ev.IsStatus {
		return false
	}

	body := strings.TrimSpace(ev.Body)
	if body == "" {
		return false
	}
	if body == strconv.FormatInt(ev.Timestamp, 10) {
		return false
	}
	if ev.IsBroadcast && !ev.FromMe {
		return false
	}
	return true
}
