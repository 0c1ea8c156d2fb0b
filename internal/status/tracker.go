// Package status tracks data source health and qualification changes
// between digest runs. State lives in memory only and starts fresh on
// every process start.
package status

import (
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"allocation-board/internal/view"
)

// Tracker handles in-memory status tracking
type Tracker struct {
	mutex  sync.RWMutex
	status *Status

	// qualified maps row key → display name for the last observed snapshot
	qualified map[string]string
	seeded    bool

	now func() time.Time
}

// NewTracker creates a new status tracker instance
func NewTracker() *Tracker {
	return &Tracker{
		status:    NewStatus(),
		qualified: make(map[string]string),
		now:       time.Now,
	}
}

// rowKey identifies a country across snapshots: its code when resolved,
// otherwise its folded name.
func rowKey(row view.Row) string {
	if row.FlagCode != "" {
		return row.FlagCode
	}
	return strings.ToLower(strings.TrimSpace(row.Country))
}

// UpdateSourceStatus records the outcome of a data source read.
func (t *Tracker) UpdateSourceStatus(success bool, rowsFound int, errorMsg string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := t.now()
	t.status.Source.LastCheck = now
	t.status.LastUpdated = now

	if success {
		t.status.Source.LastSuccess = &now
		t.status.Source.LastError = nil
		t.status.Source.RowsFound = rowsFound
		return
	}

	msg := errorMsg
	t.status.Source.LastError = &msg
}

// ObserveQualified replaces the qualified snapshot with the one in rows and
// returns display names that were not qualified in the previous snapshot,
// in row order. The first observation only seeds the snapshot and returns
// nothing.
func (t *Tracker) ObserveQualified(rows []view.Row) []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	current := make(map[string]string)
	var newly []string
	for _, row := range rows {
		if !row.Qualified {
			continue
		}
		key := rowKey(row)
		if key == "" {
			continue
		}
		if _, dup := current[key]; dup {
			continue
		}
		current[key] = row.Name
		if _, was := t.qualified[key]; t.seeded && !was {
			newly = append(newly, row.Name)
		}
	}

	if !t.seeded {
		log.WithField("qualified", len(current)).Debug("Seeded qualification snapshot")
	}

	t.qualified = current
	t.seeded = true
	t.status.LastUpdated = t.now()
	return newly
}

// RecordDigestSent stores the last successful post for a messenger.
func (t *Tracker) RecordDigestSent(messenger, runID string, rows int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := t.now()
	t.status.Digests[messenger] = DigestInfo{RunID: runID, SentAt: now, Rows: rows}
	t.status.LastUpdated = now
}

// Snapshot returns a deep copy of the current status.
func (t *Tracker) Snapshot() Status {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	s := *t.status
	if s.Source.LastSuccess != nil {
		v := *s.Source.LastSuccess
		s.Source.LastSuccess = &v
	}
	if s.Source.LastError != nil {
		v := *s.Source.LastError
		s.Source.LastError = &v
	}

	s.Qualified = make([]string, 0, len(t.qualified))
	for key := range t.qualified {
		s.Qualified = append(s.Qualified, key)
	}
	sort.Strings(s.Qualified)

	s.Digests = make(map[string]DigestInfo, len(t.status.Digests))
	for k, v := range t.status.Digests {
		s.Digests[k] = v
	}
	return s
}

// LogSummary writes the current status at info level.
func (t *Tracker) LogSummary() {
	s := t.Snapshot()
	fields := log.Fields{
		"rows_found": s.Source.RowsFound,
		"qualified":  len(s.Qualified),
		"last_check": s.Source.LastCheck.Format(time.RFC3339),
	}
	if s.Source.LastError != nil {
		fields["last_error"] = *s.Source.LastError
	}
	for messenger, info := range s.Digests {
		fields[messenger+"_last_run"] = info.RunID
	}
	log.WithFields(fields).Info("Status summary")
}
