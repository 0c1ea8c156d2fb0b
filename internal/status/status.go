package status

import "time"

// Status is a point-in-time copy of what the tracker knows.
type Status struct {
	LastUpdated time.Time             `json:"last_updated"`
	Source      SourceInfo            `json:"source"`
	Qualified   []string              `json:"qualified"` // Keys of currently qualified countries
	Digests     map[string]DigestInfo `json:"digests"`   // Per messenger
}

// SourceInfo contains status information for the allocation data source
type SourceInfo struct {
	LastCheck   time.Time  `json:"last_check"`
	LastSuccess *time.Time `json:"last_success"`
	LastError   *string    `json:"last_error"`
	RowsFound   int        `json:"rows_found"`
}

// DigestInfo records the last digest posted to one messenger
type DigestInfo struct {
	RunID  string    `json:"run_id"`
	SentAt time.Time `json:"sent_at"`
	Rows   int       `json:"rows"`
}

// NewStatus creates a new empty status structure
func NewStatus() *Status {
	return &Status{
		LastUpdated: time.Now(),
		Qualified:   make([]string, 0),
		Digests:     make(map[string]DigestInfo),
	}
}
