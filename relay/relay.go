package relay

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber"
	"github.com/gofiber/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zerbitx/gnockthru/encode"
	"github.com/zerbitx/gnockthru/spec"
)

type (
	fiberBinding func(string, ...fiber.Handler) *fiber.Route

	relay struct {
		app         *fiber.App
		client      *http.Client
		catalog     *spec.Catalog
		target      string
		cors        bool
		extra       []extraHeader
		recorder    *recorder
		hideHeaders bool
		hideBody    bool
		logger      logrus.FieldLogger
		port        int
		host        string
	}

	// response is a composed, ready-to-emit reply, produced by either the
	// mock path or the forwarding path.
	response struct {
		status  int
		headers map[string]string
		body    []byte

		// synthesized replies (gateway errors) are the relay's own, not
		// observed traffic; the recorder skips them.
		synthesized bool
	}

	config struct {
		port        int
		host        string
		target      string
		catalog     *spec.Catalog
		cors        bool
		extra       []string
		saveDir     string
		timeout     time.Duration
		hideHeaders bool
		hideBody    bool
		client      *http.Client
		logger      logrus.FieldLogger
	}

	// Option is a function that can modify a default config
	Option func(c *config)
)

// New returns a relay serving every method and path on 127.0.0.1:6969 by
// default, answering from the catalog first and the target otherwise.
func New(options ...Option) *relay {
	c := &config{
		port:    6969,
		host:    "127.0.0.1",
		timeout: 30 * time.Second,
		logger:  logrus.StandardLogger(),
	}

	for _, applyOption := range options {
		applyOption(c)
	}

	app := fiber.New(&fiber.Settings{
		ServerHeader:          "GnockThru",
		DisableStartupMessage: true,
	})

	client := c.client
	if client == nil {
		client = &http.Client{Timeout: c.timeout}
	}

	r := &relay{
		logger:      c.logger,
		app:         app,
		client:      client,
		catalog:     c.catalog,
		target:      utils.TrimRight(c.target, '/'),
		cors:        c.cors,
		extra:       parseExtraHeaders(c.extra, c.logger),
		hideHeaders: c.hideHeaders,
		hideBody:    c.hideBody,
		port:        c.port,
		host:        c.host,
	}

	if c.saveDir != "" {
		r.recorder = newRecorder(c.saveDir, c.logger)
	}

	bindings := map[string]fiberBinding{
		http.MethodGet:     app.Get,
		http.MethodPost:    app.Post,
		http.MethodDelete:  app.Delete,
		http.MethodPatch:   app.Patch,
		http.MethodPut:     app.Put,
		http.MethodOptions: app.Options,
		http.MethodConnect: app.Connect,
		http.MethodTrace:   app.Trace,
		http.MethodHead:    app.Head,
	}

	for _, bind := range bindings {
		bind("*", r.handle)
	}

	return r
}

// Start starts the app
func (r *relay) Start() error {
	r.logger.WithFields(logrus.Fields{"host": r.host, "port": r.port, "target": r.target}).Info("listening")

	return r.app.Listen(fmt.Sprintf("%s:%d", r.host, r.port))
}

// Shutdown gracefully shuts down the app
func (r *relay) Shutdown() error {
	if shutdownErr := r.app.Shutdown(); shutdownErr != nil {
		return fmt.Errorf("failed to shutdown app %w", shutdownErr)
	}

	return nil
}

// WithLogger overrides the default logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithHost sets the host
func WithHost(host string) Option {
	return func(c *config) {
		c.host = host
	}
}

// WithPort sets the app's port
func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithTarget sets the base URL unmatched requests are forwarded to
func WithTarget(target string) Option {
	return func(c *config) {
		c.target = target
	}
}

// WithCatalog sets the mock catalog consulted before forwarding
func WithCatalog(catalog *spec.Catalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

// WithCORSHeaders adds a default CORS header set to every response
func WithCORSHeaders() Option {
	return func(c *config) {
		c.cors = true
	}
}

// WithExtraHeaders adds "Name: value" headers to every response, overriding
// anything the mock, the upstream or the CORS defaults set
func WithExtraHeaders(headers []string) Option {
	return func(c *config) {
		c.extra = headers
	}
}

// WithSaveDir enables capture, recording every exchange under dir
func WithSaveDir(dir string) Option {
	return func(c *config) {
		c.saveDir = dir
	}
}

// WithUpstreamTimeout bounds each forwarded request
func WithUpstreamTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithClient overrides the upstream client
func WithClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithHideHeaders keeps request headers out of the logs
func WithHideHeaders() Option {
	return func(c *config) {
		c.hideHeaders = true
	}
}

// WithHideBody keeps response bodies out of the logs
func WithHideBody() Option {
	return func(c *config) {
		c.hideBody = true
	}
}

func (r *relay) handle(c *fiber.Ctx) {
	method := utils.ToUpper(c.Method())
	uri := c.OriginalURL()

	logger := r.logger.WithFields(logrus.Fields{
		"id":     uuid.New().String(),
		"method": method,
		"uri":    uri,
	})
	logger.Info("incoming")

	if !r.hideHeaders {
		logRequestHeaders(logger, c)
	}

	var resp response
	if mock, ok := r.catalog.Find(method, uri); ok {
		logger.WithField("status", mock.Status).Debug("serving mock")
		resp = r.mockResponse(mock)
	} else {
		logger.WithField("target", r.target).Debug("forwarding")
		resp = r.forward(c)
	}

	r.compose(&resp)

	// Best effort; a failed capture never holds back the response.
	if r.recorder != nil && !resp.synthesized {
		r.recorder.record(method, uri, resp.status, contentTypeOf(resp.headers), resp.body)
	}

	if r.hideBody {
		logger.WithFields(logrus.Fields{"status": resp.status, "bytes": len(resp.body)}).Debug("responding [body hidden]")
	} else {
		logger.WithFields(logrus.Fields{"status": resp.status, "body": string(resp.body)}).Debug("responding")
	}

	c.Status(resp.status)
	for name, value := range resp.headers {
		c.Set(name, value)
	}
	c.SendBytes(resp.body)
}

func (r *relay) mockResponse(mock *spec.Mock) response {
	headers := make(map[string]string, len(mock.Headers))
	for name, value := range mock.Headers {
		headers[name] = value
	}

	return response{
		status:  mock.Status,
		headers: headers,
		body:    r.resolveBody(mock.BodySpec),
	}
}

func logRequestHeaders(logger logrus.FieldLogger, c *fiber.Ctx) {
	headers := map[string]string{}
	c.Fasthttp.Request.Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})

	var buf bytes.Buffer
	if err := encode.JSONIndented(headers, &buf); err != nil {
		logger.WithError(err).Warn("failed to encode request headers")
		return
	}

	logger.Debug("request headers ", buf.String())
}
