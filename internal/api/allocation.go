package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"allocation-board/internal/textutil"
)

const (
	// SelectColumns is the projection requested from the allocation view.
	SelectColumns = "country,pct_goal,is_qualified,status"
	// OrderClause sorts rows by progress, highest first.
	OrderClause = "pct_goal.desc"

	maxResponseSize = 10 * 1024 * 1024
	maxErrorBody    = 1024
)

// Percent is a nullable percentage of goal. The view may return it as a JSON
// number, a numeric string (PostgreSQL numeric) or null. Invalid marks a
// value that was present but not a finite number.
type Percent struct {
	Value   float64
	Valid   bool
	Invalid bool
}

// NewPercent returns a valid Percent.
func NewPercent(v float64) Percent {
	return Percent{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers, numeric strings, booleans and null. Blank
// strings and false count as 0, true as 1. Anything else decodes as Invalid
// rather than failing the whole row.
func (p *Percent) UnmarshalJSON(data []byte) error {
	*p = Percent{}

	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return nil
	case bytes.Equal(raw, []byte("true")):
		*p = NewPercent(1)
		return nil
	case bytes.Equal(raw, []byte("false")):
		*p = NewPercent(0)
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			p.Invalid = true
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
		if len(raw) == 0 {
			*p = NewPercent(0)
			return nil
		}
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.Invalid = true
		return nil
	}
	*p = NewPercent(v)
	return nil
}

// MarshalJSON emits null for an absent or invalid value and a bare number
// otherwise.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
}

// Float returns the value, or 0 when absent or invalid.
func (p Percent) Float() float64 {
	if !p.Valid {
		return 0
	}
	return p.Value
}

// AllocationRecord is one row of the country allocation view.
type AllocationRecord struct {
	Country     string  `json:"country"`
	PctGoal     Percent `json:"pct_goal"`
	IsQualified bool    `json:"is_qualified"`
	Status      string  `json:"status"`
}

// AllocationURL builds the view URL with the fixed projection and ordering.
func (c *Client) AllocationURL() (string, error) {
	if !c.Configured() {
		return "", ErrMissingConfig
	}

	q := url.Values{}
	q.Set("select", SelectColumns)
	q.Set("order", OrderClause)

	return fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(c.view), q.Encode()), nil
}

// FetchAllocations performs one read of the allocation view. Rows are returned
// in server order. A body that is valid JSON but not an array yields an
// empty slice.
func (c *Client) FetchAllocations(ctx context.Context) ([]AllocationRecord, error) {
	rawURL, err := c.AllocationURL()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := c.fetchAllocations(ctx, rawURL)
	c.logRequest(rawURL, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"view":  c.view,
		"count": len(records),
	}).Debug("Fetched allocation rows")

	return records, nil
}

func (c *Client) fetchAllocations(ctx context.Context, rawURL string) ([]AllocationRecord, error) {
	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseSize)
	}

	return decodeAllocations(body)
}

// decodeAllocations parses a response body into records.
func decodeAllocations(body []byte) ([]AllocationRecord, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		log.WithField("body_prefix", textutil.TruncateText(string(trimmed), 64)).
			Debug("Allocation response is not an array, treating as empty")
		return []AllocationRecord{}, nil
	}

	var records []AllocationRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("failed to decode allocation rows: %w", err)
	}
	if records == nil {
		records = []AllocationRecord{}
	}
	return records, nil
}
