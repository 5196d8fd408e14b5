package webapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jimsnab/go-lane"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// page limit for FetchPaged
const maxPages = 100

var tracer = otel.Tracer("tbashell/webapi")

type (
	FetchErrorKind int

	// FetchError reports a request that produced neither fresh nor cached
	// data.
	FetchError struct {
		Kind   FetchErrorKind
		URL    string
		Status int
		Err    error
	}

	// RequestProperty is a header sent with every request.
	RequestProperty struct {
		Key   string
		Value string
	}

	ClientOptions struct {
		BaseURL    string
		Properties []RequestProperty
		Store      CacheStore
		HTTPClient *http.Client
	}

	// WebRequest fetches JSON documents with conditional GETs, keeping the
	// last good response per URL.
	WebRequest struct {
		mu         sync.Mutex
		l          lane.Lane
		apiBase    string
		properties []RequestProperty
		store      CacheStore
		http       *resty.Client
		metrics    *fetchMetrics
	}
)

const (
	FetchInvalidURL FetchErrorKind = iota
	FetchTransport
	FetchNotModifiedUncached
	FetchStatus
)

var ErrFetchFailed = errors.New("fetch failed")

func (k FetchErrorKind) String() string {
	switch k {
	case FetchInvalidURL:
		return "invalid url"
	case FetchTransport:
		return "transport"
	case FetchNotModifiedUncached:
		return "not modified but not cached"
	case FetchStatus:
		return "status"
	}
	return "unknown"
}

func (fe *FetchError) Error() string {
	switch fe.Kind {
	case FetchStatus:
		return fmt.Sprintf("request %s failed with status %d", fe.URL, fe.Status)
	case FetchNotModifiedUncached:
		return fmt.Sprintf("request %s not modified but no cached data", fe.URL)
	}
	if fe.Err != nil {
		return fmt.Sprintf("request %s: %s: %s", fe.URL, fe.Kind, fe.Err.Error())
	}
	return fmt.Sprintf("request %s: %s", fe.URL, fe.Kind)
}

func (fe *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func (fe *FetchError) Unwrap() error {
	return fe.Err
}

// NewWebRequest makes a client for one API base URL. A nil store gets an
// in-memory treestore cache.
func NewWebRequest(l lane.Lane, opts ClientOptions) *WebRequest {
	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetLogger(l)

	store := opts.Store
	if store == nil {
		store = NewTreeCacheStore(l)
	}

	return &WebRequest{
		l:          l,
		apiBase:    strings.TrimRight(opts.BaseURL, "/"),
		properties: opts.Properties,
		store:      store,
		http:       client,
		metrics:    newFetchMetrics(),
	}
}

// URL forms the full request URL for a request path.
func (wr *WebRequest) URL(request string) string {
	return wr.apiBase + "/" + strings.TrimLeft(request, "/")
}

// Fetch gets the document at the request path. A 200 with an empty or
// unparsable body returns (nil, nil). A 304 returns the cached document.
func (wr *WebRequest) Fetch(ctx context.Context, request string) (data *Value, err error) {
	fullURL := wr.URL(request)

	ctx, span := tracer.Start(ctx, "webrequest:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", fullURL))

	wr.mu.Lock()
	defer wr.mu.Unlock()

	data, err = wr.fetchUnlocked(ctx, fullURL)
	if err != nil {
		wr.metrics.record(OutcomeFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return
}

func (wr *WebRequest) fetchUnlocked(ctx context.Context, fullURL string) (data *Value, err error) {
	u, parseErr := url.Parse(fullURL)
	if parseErr == nil && (u.Scheme == "" || u.Host == "") {
		parseErr = fmt.Errorf("url %q is not absolute", fullURL)
	}
	if parseErr != nil {
		wr.l.Errorf("invalid request url %s: %s", fullURL, parseErr.Error())
		err = &FetchError{Kind: FetchInvalidURL, URL: fullURL, Err: parseErr}
		return
	}

	lastModified := time.Unix(0, 0)
	entry, cached := wr.store.Get(fullURL)
	if cached && !entry.LastModified.IsZero() {
		lastModified = entry.LastModified
	}

	req := wr.http.R().SetContext(ctx)
	for _, prop := range wr.properties {
		req.SetHeader(prop.Key, prop.Value)
	}
	req.SetHeader("If-Modified-Since", lastModified.UTC().Format(http.TimeFormat))

	wr.l.Tracef("GET %s (If-Modified-Since %s)", fullURL, lastModified.UTC().Format(http.TimeFormat))
	res, reqErr := req.Get(fullURL)
	if reqErr != nil {
		wr.l.Errorf("request %s failed: %s", fullURL, reqErr.Error())
		err = &FetchError{Kind: FetchTransport, URL: fullURL, Err: reqErr}
		return
	}
	wr.l.Infof("sending request %s: %s", fullURL, res.Status())

	switch res.StatusCode() {
	case http.StatusOK:
		parsed, jsonErr := ParseValue(res.Body())
		if jsonErr != nil {
			wr.l.Debugf("no data from %s: %s", fullURL, jsonErr.Error())
			wr.metrics.record(OutcomeEmpty)
			return
		}

		newEntry := &CacheEntry{URL: fullURL, Data: parsed}
		if text := res.Header().Get("Last-Modified"); text != "" {
			if when, timeErr := http.ParseTime(text); timeErr == nil {
				newEntry.LastModified = when
			} else {
				wr.l.Warnf("bad Last-Modified %q from %s", text, fullURL)
			}
		}
		wr.store.Put(newEntry)
		wr.metrics.record(OutcomeMiss)
		data = parsed

	case http.StatusNotModified:
		if !cached {
			wr.l.Warnf("request %s not modified, but nothing is cached", fullURL)
			err = &FetchError{Kind: FetchNotModifiedUncached, URL: fullURL, Status: res.StatusCode()}
			return
		}
		wr.metrics.record(OutcomeHit)
		data = entry.Data

	default:
		wr.l.Warnf("request %s failed: %s", fullURL, res.Status())
		err = &FetchError{Kind: FetchStatus, URL: fullURL, Status: res.StatusCode()}
	}
	return
}

// FetchPaged requests page 0, 1, 2, ... until a page is not a non-empty
// array, and joins the page elements into one array. At most maxPages pages
// are read; hitting the limit is logged as a warning.
func (wr *WebRequest) FetchPaged(ctx context.Context, pageRequest func(page int) (string, error)) (data *Value, err error) {
	items := []*Value{}
	page := 0
	for ; page < maxPages; page++ {
		request, pathErr := pageRequest(page)
		if pathErr != nil {
			return nil, pathErr
		}

		pageData, fetchErr := wr.Fetch(ctx, request)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if pageData.Kind() != KindArray || pageData.Len() == 0 {
			break
		}
		items = append(items, pageData.Items()...)
	}

	if page == maxPages {
		wr.l.Warnf("paged request stopped at the %d page limit with %d items; later pages were not read", maxPages, len(items))
	}

	data = NewArray(items)
	return
}

// Entries lists the cache contents.
func (wr *WebRequest) Entries() []*CacheEntry {
	return wr.store.Entries()
}

// Stats reports fetch outcome counts since the client was made.
func (wr *WebRequest) Stats() ([]OutcomeCount, error) {
	return wr.metrics.snapshot()
}
