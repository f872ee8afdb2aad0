// Package session provides the user-facing orchestration layer: an immutable
// browsing Session plus the Form and Link value types that drive it. Every
// operation returns a new snapshot; nothing is mutated in place, so values can
// be freely passed between pipeline stages without aliasing hazards. Parallel
// test cases must each use their own Session chain.
package session

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/xkilldash9x/webprobe/internal/config"
	"github.com/xkilldash9x/webprobe/pkg/cookiejar"
	"github.com/xkilldash9x/webprobe/pkg/htmlform"
	"github.com/xkilldash9x/webprobe/pkg/observability"
	"github.com/xkilldash9x/webprobe/pkg/requester"
	"go.uber.org/zap"
)

// Session is an immutable snapshot of a browsing state: the handler under
// test, the currently loaded document, the last response, the accumulated
// cookie jar and the current path.
type Session struct {
	handler http.Handler
	engine  *requester.Engine
	cfg     config.ClientConfig
	log     *zap.Logger
	id      string

	doc  *goquery.Document
	resp *http.Response
	body string
	jar  cookiejar.Jar
	path string
}

// Option customizes session construction.
type Option func(*settings)

type settings struct {
	cfg    config.ClientConfig
	logger *zap.Logger
}

// WithConfig overrides the default client configuration.
func WithConfig(cfg config.ClientConfig) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithLogger attaches a specific logger instead of the global one.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New starts a browsing session against the given handler by issuing a GET to
// path with a fresh, empty cookie jar.
func New(handler http.Handler, path string, opts ...Option) (Session, error) {
	s := settings{cfg: config.NewDefaultConfig().Client()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = observability.GetLogger()
	}
	if s.cfg.CSRFField == "" {
		s.cfg.CSRFField = htmlform.DefaultTokenField
	}

	id := uuid.NewString()
	sess := Session{
		handler: handler,
		engine:  requester.NewEngine(handler, s.cfg, s.logger),
		cfg:     s.cfg,
		log:     s.logger.Named("session").With(zap.String("session_id", id)),
		id:      id,
		jar:     cookiejar.Empty(),
	}
	return sess.navigate(http.MethodGet, path, nil, sess.jar)
}

// Get navigates to path, carrying the session's cookie jar forward. This is
// how authenticated state persists across navigations.
func (s Session) Get(path string) (Session, error) {
	return s.navigate(http.MethodGet, path, nil, s.jar)
}

// ClickLink finds a link by CSS selector or exact text and follows it.
func (s Session) ClickLink(selectorOrText string) (Session, error) {
	link, err := FindLink(s, selectorOrText)
	if err != nil {
		return Session{}, err
	}
	return link.Click()
}

// navigate runs the engine and produces the superseding session snapshot.
func (s Session) navigate(method, path string, params map[string]string, jar cookiejar.Jar) (Session, error) {
	res, err := s.engine.Perform(context.Background(), method, path, params, jar)
	if err != nil {
		return Session{}, err
	}

	s.log.Debug("Navigation complete",
		zap.String("method", method),
		zap.String("path", res.Path),
		zap.Int("status", res.Response.StatusCode))

	next := s
	next.doc = res.Document
	next.resp = res.Response
	next.body = res.Body
	next.jar = res.Jar
	next.path = res.Path
	return next, nil
}

// ID returns the session's correlation id, present on every log entry.
func (s Session) ID() string { return s.id }

// Document returns the parsed HTML document of the last response.
func (s Session) Document() *goquery.Document { return s.doc }

// Response returns the last (post-redirect) response.
func (s Session) Response() *http.Response { return s.resp }

// Body returns the last response body.
func (s Session) Body() string { return s.body }

// Jar returns the accumulated cookie jar.
func (s Session) Jar() cookiejar.Jar { return s.jar }

// Path returns the current path, after any redirects.
func (s Session) Path() string { return s.path }
