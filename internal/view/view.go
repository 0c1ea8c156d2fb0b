// Package view holds the allocation board view: a single fetch per mount,
// the resulting view state, the per-row view model and HTML rendering.
package view

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"allocation-board/internal/api"
)

const (
	// ErrorMessage is the only failure text shown to users.
	ErrorMessage = "Failed to load country allocation."
	// EmptyMessage is shown when a successful load returned no rows.
	EmptyMessage = "No data."
)

// ErrAlreadyMounted is returned when Mount is called a second time.
var ErrAlreadyMounted = errors.New("view already mounted")

// Fetcher performs one read of the allocation records.
type Fetcher interface {
	FetchAllocations(ctx context.Context) ([]api.AllocationRecord, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]api.AllocationRecord, error)

func (f FetcherFunc) FetchAllocations(ctx context.Context) ([]api.AllocationRecord, error) {
	return f(ctx)
}

// Options holds board presentation settings.
type Options struct {
	Title        string
	GoalAmount   int64
	GoalCurrency string
	FlagBaseURL  string
}

// GoalText formats the goal with thousands separators, e.g. "US$1,000,000".
func (o Options) GoalText() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s%d", o.GoalCurrency, o.GoalAmount)
}

// State is the view-local result of a load.
type State struct {
	Records []api.AllocationRecord
	Err     string
}

// AllocationView is owned by a single request and is not safe for
// concurrent use.
type AllocationView struct {
	fetcher  Fetcher
	resolver CountryResolver
	opts     Options

	mounted bool
	state   State
}

// New creates an unmounted view.
func New(fetcher Fetcher, resolver CountryResolver, opts Options) *AllocationView {
	return &AllocationView{
		fetcher:  fetcher,
		resolver: resolver,
		opts:     opts,
	}
}

// Mount performs the view's single read. ctx is the view's lifetime: if it
// is done by the time the read returns, the result is discarded, state is
// left untouched and ctx.Err() is returned. Load failures are not returned;
// they become view state.
func (v *AllocationView) Mount(ctx context.Context) error {
	if v.mounted {
		return ErrAlreadyMounted
	}
	v.mounted = true

	if v.fetcher == nil {
		v.fail(errors.New("no fetcher configured"))
		return nil
	}

	records, err := v.fetcher.FetchAllocations(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.WithError(ctxErr).Debug("Discarding allocation result after view teardown")
		return ctxErr
	}

	if err != nil {
		v.fail(err)
		return nil
	}

	if records == nil {
		records = []api.AllocationRecord{}
	}
	v.state = State{Records: records}
	return nil
}

func (v *AllocationView) fail(err error) {
	log.WithError(err).Error("Failed to load country allocation")
	v.state = State{Records: []api.AllocationRecord{}, Err: ErrorMessage}
}

// State returns the current view state.
func (v *AllocationView) State() State {
	return v.state
}

// Rows returns the view model for the current records.
func (v *AllocationView) Rows() []Row {
	return BuildRows(v.state.Records, v.resolver, v.opts.FlagBaseURL)
}

// Page assembles the template model for the allocation view.
func (v *AllocationView) Page(forceMobile bool) Page {
	rows := v.Rows()
	return Page{
		Kind:        KindAllocation,
		Title:       v.opts.Title,
		GoalText:    v.opts.GoalText(),
		ForceMobile: forceMobile,
		Rows:        rows,
		Error:       v.state.Err,
		Empty:       len(rows) == 0 && v.state.Err == "",
	}
}
