package webapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jimsnab/go-lane"
	"github.com/stretchr/testify/require"
)

type (
	fakeServer struct {
		mu           sync.Mutex
		bodies       map[string]string
		status       map[string]int
		lastModified time.Time
		requests     []*http.Request
	}
)

func newFakeServer(t *testing.T) (fs *fakeServer, wr *WebRequest) {
	fs = &fakeServer{
		bodies:       map[string]string{},
		status:       map[string]int{},
		lastModified: time.Date(2017, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)

	l := lane.NewTestingLane(context.Background())
	wr = NewWebRequest(l, ClientOptions{
		BaseURL: srv.URL + "/api/v3/",
		Properties: []RequestProperty{
			{Key: "User-Agent", Value: "TBAShell"},
			{Key: "X-TBA-App-Id", Value: "frc492:TBAShell:v0.1"},
			{Key: "X-TBA-Auth-Key", Value: "secret"},
		},
	})
	return
}

func (fs *fakeServer) set(path, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.bodies[path] = body
}

func (fs *fakeServer) setStatus(path string, status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status[path] = status
}

func (fs *fakeServer) touch(when time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.lastModified = when
}

func (fs *fakeServer) requestCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func (fs *fakeServer) lastRequest() *http.Request {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.requests[len(fs.requests)-1]
}

func (fs *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.requests = append(fs.requests, r)

	if status, exists := fs.status[r.URL.Path]; exists {
		w.WriteHeader(status)
		return
	}

	body, exists := fs.bodies[r.URL.Path]
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil {
		if !fs.lastModified.After(since) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Last-Modified", fs.lastModified.Format(http.TimeFormat))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func TestFetchSendsHeaders(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/status", `{"current_season":2017}`)

	data, err := wr.Fetch(context.Background(), "status")
	require.NoError(t, err)
	require.Equal(t, "2017", data.Get("current_season").Str())

	r := fs.lastRequest()
	require.Equal(t, "TBAShell", r.Header.Get("User-Agent"))
	require.Equal(t, "frc492:TBAShell:v0.1", r.Header.Get("X-TBA-App-Id"))
	require.Equal(t, "secret", r.Header.Get("X-TBA-Auth-Key"))
	require.Equal(t, time.Unix(0, 0).UTC().Format(http.TimeFormat), r.Header.Get("If-Modified-Since"))
}

func TestFetchUsesCacheOnNotModified(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/team/frc492", `{"key":"frc492","nickname":"Titan Robotics"}`)

	first, err := wr.Fetch(context.Background(), "team/frc492")
	require.NoError(t, err)

	second, err := wr.Fetch(context.Background(), "/team/frc492")
	require.NoError(t, err)
	require.Equal(t, first.Literal(), second.Literal())
	require.Same(t, first, second)
	require.Equal(t, 2, fs.requestCount())

	r := fs.lastRequest()
	require.Equal(t, "Wed, 01 Mar 2017 12:00:00 GMT", r.Header.Get("If-Modified-Since"))

	stats, err := wr.Stats()
	require.NoError(t, err)
	require.Equal(t, []OutcomeCount{
		{Outcome: OutcomeHit, Count: 1},
		{Outcome: OutcomeMiss, Count: 1},
		{Outcome: OutcomeEmpty, Count: 0},
		{Outcome: OutcomeFailed, Count: 0},
	}, stats)
}

func TestFetchReplacesEntryOnChange(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/team/frc492", `{"key":"frc492","rookie_year":2000}`)

	_, err := wr.Fetch(context.Background(), "team/frc492")
	require.NoError(t, err)

	later := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	fs.set("/api/v3/team/frc492", `{"key":"frc492","rookie_year":2001}`)
	fs.touch(later)

	data, err := wr.Fetch(context.Background(), "team/frc492")
	require.NoError(t, err)
	require.Equal(t, "2001", data.Get("rookie_year").Str())

	entries := wr.Entries()
	require.Len(t, entries, 1)
	require.True(t, entries[0].LastModified.Equal(later))
	require.Equal(t, wr.URL("team/frc492"), entries[0].URL)
}

func TestFetchNotModifiedWithoutEntry(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.setStatus("/api/v3/status", http.StatusNotModified)

	data, err := wr.Fetch(context.Background(), "status")
	require.Nil(t, data)
	require.ErrorIs(t, err, ErrFetchFailed)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchNotModifiedUncached, fe.Kind)
}

func TestFetchBadStatus(t *testing.T) {
	_, wr := newFakeServer(t)

	data, err := wr.Fetch(context.Background(), "team/frc0")
	require.Nil(t, data)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchStatus, fe.Kind)
	require.Equal(t, http.StatusNotFound, fe.Status)
	require.Empty(t, wr.Entries())
}

func TestFetchEmptyBodyIsNoData(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/event/2017bad/insights", ``)
	fs.set("/api/v3/event/2017bad/oprs", `not json`)

	data, err := wr.Fetch(context.Background(), "event/2017bad/insights")
	require.NoError(t, err)
	require.Nil(t, data)

	data, err = wr.Fetch(context.Background(), "event/2017bad/oprs")
	require.NoError(t, err)
	require.Nil(t, data)
	require.Empty(t, wr.Entries())
}

func TestFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	wr := NewWebRequest(lane.NewTestingLane(context.Background()), ClientOptions{BaseURL: base})
	_, err := wr.Fetch(context.Background(), "status")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchTransport, fe.Kind)
}

func TestFetchInvalidURL(t *testing.T) {
	wr := NewWebRequest(lane.NewTestingLane(context.Background()), ClientOptions{BaseURL: "not a url"})
	_, err := wr.Fetch(context.Background(), "status")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchInvalidURL, fe.Kind)
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchPaged(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/teams/2017/0/keys", `["frc1","frc2"]`)
	fs.set("/api/v3/teams/2017/1/keys", `["frc3"]`)
	fs.set("/api/v3/teams/2017/2/keys", `[]`)

	ep, _ := Lookup("teams_year")
	data, err := wr.FetchPaged(context.Background(), func(page int) (string, error) {
		return ep.Path(map[string]string{"year": "2017", "page": strconv.Itoa(page)}, "keys")
	})
	require.NoError(t, err)
	require.Equal(t, `["frc1","frc2","frc3"]`, data.Literal())
}

func TestFetchPagedFailure(t *testing.T) {
	fs, wr := newFakeServer(t)
	fs.set("/api/v3/teams/0", `[{"key":"frc1"}]`)
	fs.setStatus("/api/v3/teams/1", http.StatusInternalServerError)

	data, err := wr.FetchPaged(context.Background(), func(page int) (string, error) {
		return "teams/" + strconv.Itoa(page), nil
	})
	require.Nil(t, data)
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchPagedLimit(t *testing.T) {
	fs, wr := newFakeServer(t)
	for page := 0; page < maxPages+50; page++ {
		fs.set("/api/v3/teams/"+strconv.Itoa(page), `[{"key":"frc`+strconv.Itoa(page)+`"}]`)
	}

	data, err := wr.FetchPaged(context.Background(), func(page int) (string, error) {
		return "teams/" + strconv.Itoa(page), nil
	})
	require.NoError(t, err)
	require.Equal(t, maxPages, data.Len())
	require.Equal(t, maxPages, fs.requestCount())

	tl := wr.l.(lane.TestingLane)
	require.True(t, tl.FindEventText("WARN\tpaged request stopped at the 100 page limit with 100 items; later pages were not read"))
}
