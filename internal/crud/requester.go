package crud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal/endpoints"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/gregjones/httpcache"
	"golang.org/x/exp/maps"
)

// Operation names passed to the metrics recorder.
const (
	OperationCreate   = "create"
	OperationFetchAll = "fetch_all"
	OperationFetchOne = "fetch_one"
	OperationStatus   = "status"
)

// Response is a successful (2xx) response from the backend.
type Response struct {
	Body       []byte
	URL        string
	StatusCode int
	// Cached is true if the response was served from the revalidation cache.
	Cached   bool
	Duration time.Duration
}

// Requester performs HTTP requests against the Mendel API. Each store has its own Requester.
//
// GET responses are kept in an in-memory cache and revalidated with ETag/Last-Modified when the backend
// provides them. Every GET reaches the backend. Non-GET requests to a URL invalidate its cached response.
type Requester struct {
	httpClient *http.Client
	baseURL    string
	headers    http.Header
	loggers    ldlog.Loggers
	logBodies  bool
	metrics    subsystems.MetricsRecorder
}

// NewRequester creates a Requester. If httpClient is nil, the client context's HTTP client factory
// is used.
func NewRequester(context subsystems.ClientContext, httpClient *http.Client) *Requester {
	if httpClient == nil {
		httpClient = context.GetHTTP().CreateHTTPClient()
	}

	modifiedClient := *httpClient
	modifiedClient.Transport = &httpcache.Transport{
		Cache:               httpcache.NewMemoryCache(),
		MarkCachedResponses: true,
		Transport:           httpClient.Transport,
	}

	loggers := context.GetLogging().Loggers
	loggers.SetPrefix("Requester:")

	return &Requester{
		httpClient: &modifiedClient,
		baseURL:    context.GetBaseURL(),
		headers:    context.GetHTTP().DefaultHeaders,
		loggers:    loggers,
		logBodies:  context.GetLogging().LogRequestBodies,
		metrics:    context.GetMetrics(),
	}
}

// BaseURL returns the base URL that paths are resolved against.
func (r *Requester) BaseURL() string {
	return r.baseURL
}

// URL returns the absolute URL of a resource path.
func (r *Requester) URL(path string) string {
	return endpoints.AddPath(r.baseURL, path)
}

// Get performs a GET request. Kind and operation are used only for metrics.
func (r *Requester) Get(ctx context.Context, kind, operation, path string) (Response, error) {
	return r.do(ctx, kind, operation, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (r *Requester) Post(ctx context.Context, kind, path string, body []byte) (Response, error) {
	return r.do(ctx, kind, OperationCreate, http.MethodPost, path, body)
}

func (r *Requester) do(
	ctx context.Context,
	kind, operation, method, path string,
	body []byte,
) (Response, error) {
	start := time.Now()
	resp, err := r.makeRequest(ctx, method, path, body)
	resp.Duration = time.Since(start)
	outcome := subsystems.OutcomeSuccess
	if err != nil {
		outcome = subsystems.OutcomeFailure
	}
	r.metrics.RecordRequest(kind, operation, outcome, resp.Duration)
	return resp, err
}

func (r *Requester) makeRequest(ctx context.Context, method, path string, body []byte) (Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, reqErr := http.NewRequestWithContext(ctx, method, r.URL(path), bodyReader)
	if reqErr != nil {
		reqErr = fmt.Errorf(
			"unable to create a request; this is not a network problem, most likely a bad base URL: %w",
			reqErr,
		)
		return Response{}, reqErr
	}
	url := req.URL.String()
	if r.headers != nil {
		req.Header = maps.Clone(r.headers)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		// The cache may only supply the body of a 304; it never answers a GET without asking the backend,
		// even if the backend sends freshness headers.
		req.Header.Set("Cache-Control", "max-age=0")
	}

	if r.loggers.IsDebugEnabled() {
		if r.logBodies && body != nil {
			r.loggers.Debugf("%s %s: %s", method, url, string(body))
		} else {
			r.loggers.Debugf("%s %s", method, url)
		}
	}

	res, resErr := r.httpClient.Do(req)
	if resErr != nil {
		return Response{URL: url}, resErr
	}

	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	resBody, ioErr := io.ReadAll(res.Body)
	if ioErr != nil {
		return Response{URL: url, StatusCode: res.StatusCode}, ioErr
	}

	if err := checkForHTTPError(res.StatusCode, url, resBody); err != nil {
		return Response{URL: url, StatusCode: res.StatusCode}, err
	}

	cached := res.Header.Get(httpcache.XFromCache) != ""
	if cached && r.loggers.IsDebugEnabled() {
		r.loggers.Debugf("Response for %s was served from cache", url)
	}
	return Response{Body: resBody, URL: url, StatusCode: res.StatusCode, Cached: cached}, nil
}

func checkForHTTPError(statusCode int, url string, body []byte) error {
	if statusCode/100 == 2 {
		return nil
	}
	return interfaces.HTTPStatusError{
		Code:    statusCode,
		Message: errorMessageFromBody(body),
		URL:     url,
	}
}
