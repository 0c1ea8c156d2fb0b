package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-board/internal/api"
	"allocation-board/internal/country"
)

var testOptions = Options{
	Title:        "Country Allocation Progress",
	GoalAmount:   1_000_000,
	GoalCurrency: "US$",
	FlagBaseURL:  country.DefaultFlagBaseURL,
}

func staticFetcher(records []api.AllocationRecord, err error) FetcherFunc {
	return func(ctx context.Context) ([]api.AllocationRecord, error) {
		return records, err
	}
}

func mountAndRender(t *testing.T, f Fetcher) (*AllocationView, string) {
	t.Helper()
	v := New(f, country.Default(), testOptions)
	require.NoError(t, v.Mount(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v.Page(false)))
	return v, buf.String()
}

func TestView_SingleQualifiedRow(t *testing.T) {
	v, html := mountAndRender(t, staticFetcher([]api.AllocationRecord{
		{Country: "UK", PctGoal: api.NewPercent(55.5), IsQualified: true, Status: "x"},
	}, nil))

	rows := v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "gb", rows[0].FlagCode)
	assert.Equal(t, "https://flagcdn.com/w40/gb.png", rows[0].FlagURL)
	assert.Equal(t, 55.5, rows[0].Width)
	assert.Equal(t, "55.5%", rows[0].PctText)
	assert.Equal(t, BadgeQualified, rows[0].Badge)

	assert.Contains(t, html, `src="https://flagcdn.com/w40/gb.png"`)
	assert.Contains(t, html, `style="width: 55.5%"`)
	assert.Contains(t, html, `<strong>55.5%</strong> of US$1,000,000`)
	assert.Contains(t, html, `<div class="headline">55.5%</div>`)
	assert.Contains(t, html, `<div class="badge qualified">Qualified</div>`)
	assert.Equal(t, 1, strings.Count(html, `class="row"`))
	assert.NotContains(t, html, EmptyMessage)
	assert.NotContains(t, html, ErrorMessage)
}

func TestView_OverGoalIsClampedForBarOnly(t *testing.T) {
	v, html := mountAndRender(t, staticFetcher([]api.AllocationRecord{
		{Country: "Germany", PctGoal: api.NewPercent(142.37)},
	}, nil))

	rows := v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, 100.0, rows[0].Width)
	assert.Equal(t, "142.4%", rows[0].PctText)
	assert.Equal(t, BadgePending, rows[0].Badge)

	assert.Contains(t, html, `style="width: 100%"`)
	assert.Contains(t, html, `<div class="headline">142.4%</div>`)
	assert.Contains(t, html, `<div class="badge">Pending</div>`)
}

func TestView_FetchErrorShowsGenericMessage(t *testing.T) {
	v, html := mountAndRender(t, staticFetcher(nil, errors.New("connection refused")))

	assert.Equal(t, ErrorMessage, v.State().Err)
	assert.Empty(t, v.State().Records)
	assert.Empty(t, v.Rows())
	assert.Contains(t, html, ErrorMessage)
	assert.NotContains(t, html, "connection refused")
	assert.NotContains(t, html, `class="row"`)
	assert.NotContains(t, html, EmptyMessage)
}

func TestView_HTTP500ShowsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := api.NewClient(api.Options{BaseURL: srv.URL, APIKey: "k", View: "v"})
	require.NoError(t, err)

	v, html := mountAndRender(t, client)
	assert.Equal(t, ErrorMessage, v.State().Err)
	assert.Empty(t, v.Rows())
	assert.Contains(t, html, ErrorMessage)
	assert.NotContains(t, html, "boom")
}

func TestView_MissingConfigShowsGenericMessage(t *testing.T) {
	client, err := api.NewClient(api.Options{View: "v"})
	require.NoError(t, err)

	v, _ := mountAndRender(t, client)
	assert.Equal(t, ErrorMessage, v.State().Err)
}

func TestView_EmptyResultShowsNoData(t *testing.T) {
	v, html := mountAndRender(t, staticFetcher([]api.AllocationRecord{}, nil))

	assert.Empty(t, v.State().Err)
	assert.Contains(t, html, `<div class="empty">No data.</div>`)
	assert.NotContains(t, html, ErrorMessage)
}

func TestView_UnresolvedCountryHasNoImage(t *testing.T) {
	v, html := mountAndRender(t, staticFetcher([]api.AllocationRecord{
		{Country: "Atlantis", PctGoal: api.NewPercent(10)},
		{Country: "", PctGoal: api.NewPercent(5)},
	}, nil))

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].FlagURL)
	assert.Equal(t, UnknownCountry, rows[1].Name)
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "<span>Atlantis</span>")
	assert.Contains(t, html, "<span>Unknown</span>")
}

func TestView_PreservesServerOrder(t *testing.T) {
	v, _ := mountAndRender(t, staticFetcher([]api.AllocationRecord{
		{Country: "France", PctGoal: api.NewPercent(10)},
		{Country: "Japan", PctGoal: api.NewPercent(90)},
	}, nil))

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "France", rows[0].Name)
	assert.Equal(t, "Japan", rows[1].Name)
}

func TestView_MountFetchesOnce(t *testing.T) {
	calls := 0
	v := New(FetcherFunc(func(ctx context.Context) ([]api.AllocationRecord, error) {
		calls++
		return nil, nil
	}), country.Default(), testOptions)

	require.NoError(t, v.Mount(context.Background()))
	assert.ErrorIs(t, v.Mount(context.Background()), ErrAlreadyMounted)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, v.State().Records)
}

func TestView_CancelledResultIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := New(FetcherFunc(func(ctx context.Context) ([]api.AllocationRecord, error) {
		cancel()
		return []api.AllocationRecord{{Country: "France"}}, nil
	}), country.Default(), testOptions)

	err := v.Mount(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, v.State().Records)
	assert.Empty(t, v.State().Err)
}

func TestView_SuccessClearsPreviousError(t *testing.T) {
	v := New(staticFetcher([]api.AllocationRecord{{Country: "Peru"}}, nil), country.Default(), testOptions)
	v.state = State{Err: ErrorMessage}

	require.NoError(t, v.Mount(context.Background()))
	assert.Empty(t, v.State().Err)
	assert.Len(t, v.State().Records, 1)
}

func TestRender_ForceMobileAndLanding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, LandingPage(testOptions, true)))
	html := buf.String()

	assert.Contains(t, html, `<html lang="en" class="force-mobile">`)
	assert.Contains(t, html, `id="landing"`)
	assert.Contains(t, html, `href="?view=alloc&amp;viewport=mobile"`)
	assert.NotContains(t, html, `id="allocation"`)

	buf.Reset()
	require.NoError(t, Render(&buf, LandingPage(testOptions, false)))
	assert.Contains(t, buf.String(), `<html lang="en">`)
}

func TestRender_EscapesCountryNames(t *testing.T) {
	_, html := mountAndRender(t, staticFetcher([]api.AllocationRecord{
		{Country: "<script>alert(1)</script>", PctGoal: api.NewPercent(1)},
	}, nil))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBuildRow_NegativeAndAbsent(t *testing.T) {
	neg := BuildRow(api.AllocationRecord{Country: "France", PctGoal: api.NewPercent(-12)}, country.Default(), "")
	assert.Equal(t, 0.0, neg.Width)
	assert.Equal(t, "0.0%", neg.PctText)

	absent := BuildRow(api.AllocationRecord{Country: "France"}, country.Default(), "")
	assert.Equal(t, 0.0, absent.Width)
	assert.Equal(t, "0.0%", absent.PctText)
	assert.Equal(t, "https://flagcdn.com/w40/fr.png", absent.FlagURL)
	assert.Equal(t, "🇫🇷", absent.FlagEmoji)
}

func TestView_NonNumericPercentRendersNoText(t *testing.T) {
	var records []api.AllocationRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"country": "France", "pct_goal": "not-a-number", "is_qualified": false},
		{"country": "Germany", "pct_goal": null, "is_qualified": false}
	]`), &records))

	v, html := mountAndRender(t, staticFetcher(records, nil))

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0].PctText)
	assert.Equal(t, 0.0, rows[0].Width)
	assert.Equal(t, "fr", rows[0].FlagCode)
	assert.Equal(t, "0.0%", rows[1].PctText)
	assert.Contains(t, html, `<div class="headline"></div>`)
	assert.Contains(t, html, `<div class="headline">0.0%</div>`)
}

func TestBuildRows_NilResolver(t *testing.T) {
	rows := BuildRows([]api.AllocationRecord{{Country: "France"}}, nil, "")
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].FlagCode)
	assert.NotNil(t, BuildRows(nil, nil, ""))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(142.37, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 100))
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"non-numeric string", "not-a-number", ""},
		{"NaN", math.NaN(), ""},
		{"infinity", math.Inf(1), ""},
		{"float", 55.5, "55.5%"},
		{"rounds", 142.37, "142.4%"},
		{"int", 7, "7.0%"},
		{"numeric string", "12.34", "12.3%"},
		{"blank string", "  ", "0.0%"},
		{"valid percent", api.NewPercent(3), "3.0%"},
		{"absent percent", api.Percent{}, ""},
		{"invalid percent", api.Percent{Invalid: true}, ""},
		{"unsupported", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPct(tt.in))
		})
	}
}

func TestOptions_GoalText(t *testing.T) {
	assert.Equal(t, "US$1,000,000", testOptions.GoalText())
	assert.Equal(t, "€250,000", Options{GoalAmount: 250000, GoalCurrency: "€"}.GoalText())
}
