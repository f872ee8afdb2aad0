// Package requester implements the request/redirect engine behind a browsing
// session. Dispatch is an in-process call to the application handler, never a
// network round trip, so the full navigation (including every redirect hop)
// completes synchronously.
package requester

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xkilldash9x/webprobe/internal/config"
	"github.com/xkilldash9x/webprobe/pkg/cookiejar"
	"github.com/xkilldash9x/webprobe/pkg/observability"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultMaxRedirects bounds the redirect chain for a single navigation.
const DefaultMaxRedirects = 5

var (
	// ErrMissingLocation is returned when a 3xx response carries no Location
	// header. The application under test is misbehaving.
	ErrMissingLocation = errors.New("redirect response missing Location header")
	// ErrTooManyRedirects is returned when the redirect budget is exhausted,
	// foreclosing infinite redirect loops.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Result is the terminal state of a navigation: the final (non-redirect)
// response, its parsed document, and the cookie jar folded over every
// response in the chain.
type Result struct {
	Response *http.Response
	Body     string
	Document *goquery.Document
	Jar      cookiejar.Jar
	// Path is the final request path after the redirect chain.
	Path string
}

// Engine builds requests, dispatches them to the application handler and
// follows redirects. It is stateless across calls; all accumulated state
// (the cookie jar) flows through Perform's arguments and result.
type Engine struct {
	handler http.Handler
	cfg     config.ClientConfig
	log     *zap.Logger
}

// NewEngine creates an engine around the given handler. A nil logger falls
// back to the global one.
func NewEngine(handler http.Handler, cfg config.ClientConfig, logger *zap.Logger) *Engine {
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &Engine{
		handler: handler,
		cfg:     cfg,
		log:     logger.Named("requester"),
	}
}

// Perform executes a full navigation: build the request, inject the jar,
// dispatch, merge response cookies, and follow redirects up to the configured
// budget. GET params are percent-encoded into the query string; for any other
// method they become the urlencoded request body. Handler failure statuses
// (4xx/5xx) are ordinary results, not errors.
func (e *Engine) Perform(ctx context.Context, method, path string, params map[string]string, jar cookiejar.Jar) (*Result, error) {
	return e.perform(ctx, method, path, params, jar, e.cfg.MaxRedirects, "")
}

// perform is one step of the navigation state machine. A redirect response
// recurses with a decremented budget; anything else is the Done state. Folding
// the jar through each recursive call makes the chain's final cookie state the
// left-fold of Merge over every response in the chain.
func (e *Engine) perform(ctx context.Context, method, path string, params map[string]string, jar cookiejar.Jar, redirectsLeft int, referer string) (*Result, error) {
	req, err := e.buildRequest(ctx, method, path, params)
	if err != nil {
		return nil, err
	}

	jar.Apply(req)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	e.log.Debug("Dispatching request",
		zap.String("method", method),
		zap.String("path", req.URL.RequestURI()),
		zap.Int("redirects_left", redirectsLeft))

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req

	merged := cookiejar.Merge(jar, cookiejar.FromResponse(resp))

	if e.cfg.TraceRequests {
		e.log.Debug("Received response",
			zap.Int("status", resp.StatusCode),
			zap.Strings("cookies", merged.Names()))
	}

	if isRedirect(resp.StatusCode) {
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("%w (status %d from %s)", ErrMissingLocation, resp.StatusCode, req.URL.Path)
		}
		redirectsLeft--
		if redirectsLeft == 0 {
			return nil, fmt.Errorf("%w: gave up after %d hops at %q", ErrTooManyRedirects, e.cfg.MaxRedirects, location)
		}
		nextURL, err := req.URL.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid redirect Location %q: %w", location, err)
		}
		// Redirects are always followed with a parameterless GET, regardless
		// of the original method or status code.
		return e.perform(ctx, http.MethodGet, nextURL.RequestURI(), nil, merged, redirectsLeft, req.URL.String())
	}

	body := rec.Body.String()
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response: resp,
		Body:     body,
		Document: doc,
		Jar:      merged,
		Path:     req.URL.Path,
	}, nil
}

// buildRequest assembles the outgoing request for (method, path, params).
func (e *Engine) buildRequest(ctx context.Context, method, path string, params map[string]string) (*http.Request, error) {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	// httptest.NewRequest panics on a malformed target, so validate first and
	// surface a regular error instead.
	if _, err := url.ParseRequestURI(path); err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}

	var body *strings.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			path += sep + encodeParams(params)
		}
		body = strings.NewReader("")
	} else {
		body = strings.NewReader(encodeParams(params))
	}

	req := httptest.NewRequest(method, path, body).WithContext(ctx)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

func encodeParams(params map[string]string) string {
	form := make(url.Values, len(params))
	for name, value := range params {
		form.Set(name, value)
	}
	return form.Encode()
}

func isRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func parseDocument(body string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse response body as HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
