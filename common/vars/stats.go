package vars

import (
	"sync/atomic"

	"clubdesk/model"
)

// statsPtr holds the current inbox stats snapshot. The cron replaces the
// whole value so readers never see a partially updated snapshot.
var statsPtr atomic.Pointer[model.InboxStats]

// GetInboxStats returns the current snapshot. Before the first refresh it
// returns the zero value so the dashboard degrades to empty counters.
func GetInboxStats() model.InboxStats {
	ptr := statsPtr.Load()
	if ptr == nil {
		return model.InboxStats{}
	}
	return *ptr
}

// SetInboxStats atomically replaces the snapshot.
func SetInboxStats(stats model.InboxStats) {
	statsPtr.Store(&stats)
}
