package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gqlgate/gqlgate/internal/accept"
	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
	"github.com/gqlgate/gqlgate/internal/graphiql"
	"github.com/gqlgate/gqlgate/internal/httpquery"
	"github.com/gqlgate/gqlgate/internal/reqid"
)

// Handler is an http.Handler that adapts HTTP requests into GraphQL
// executions: it decodes the body per content type, resolves operation
// parameters, runs them against the schema, and encodes the results. When
// the client asks for HTML it renders the GraphiQL explorer instead.
type Handler struct {
	schema     httpquery.ExecutableSchema
	middleware []httpquery.Middleware
	opt        Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	// GraphiQL enables the in-browser IDE when true.
	GraphiQL bool

	// Batch enables JSON-array request bodies carrying several operations.
	Batch bool

	// RootValue seeds top-level field resolution.
	RootValue any

	// Middleware configures the resolver-wrapping chain, first entry
	// outermost. Nil installs no middleware stage.
	Middleware []httpquery.MiddlewareSpec
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithGraphiQL(enable bool) Option { return func(o *Options) { o.GraphiQL = enable } }
func WithBatch(enable bool) Option    { return func(o *Options) { o.Batch = enable } }
func WithRootValue(v any) Option      { return func(o *Options) { o.RootValue = v } }
func WithMiddleware(specs ...httpquery.MiddlewareSpec) Option {
	return func(o *Options) { o.Middleware = specs }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a GraphQL HTTP handler serving the given schema. Middleware
// specs are normalized once here; the handler holds no other mutable state
// across requests.
func New(schema httpquery.ExecutableSchema, opts ...Option) (*Handler, error) {
	if schema == nil {
		return nil, errors.New("server: a schema is required")
	}
	op := Options{Timeout: 10 * time.Second, GraphiQL: true, Batch: true}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{
		schema:     schema,
		middleware: httpquery.InstantiateMiddleware(op.Middleware),
		opt:        op,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, _ = reqid.NewContext(ctx)
	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Duration: time.Since(start)})
	}()

	if r.Method == http.MethodOptions {
		if len(h.opt.CORS.AllowedOrigins) > 0 {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	decoded, reqErr := h.decodeRequest(r)
	if reqErr != nil {
		status = h.writeRequestError(w, reqErr, h.opt.Pretty)
		return
	}

	urlQuery := r.URL.Query()
	showExplorer := r.Method == http.MethodGet &&
		h.opt.GraphiQL &&
		!urlQuery.Has("raw") &&
		accept.WantsHTML(r.Header.Get("Accept"))
	pretty := h.opt.Pretty || showExplorer || urlQuery.Has("pretty")

	results, allParams, err := httpquery.RunHTTPQuery(ctx, h.schema, r.Method, decoded, urlQuery, httpquery.RunOptions{
		BatchEnabled: h.opt.Batch,
		RootValue:    h.opt.RootValue,
		ContextValue: r,
		Middleware:   h.middleware,
	})
	if err != nil {
		if showExplorer {
			// The explorer swallows request-level errors: a missing or
			// malformed query still lands in an editable page with the
			// client's input pre-filled.
			status = h.writeExplorer(w, explorerParams(decoded, urlQuery), "")
			return
		}
		status = h.writeRequestError(w, asRequestError(err), pretty)
		return
	}

	body, code, err := httpquery.EncodeResults(results, decoded.IsBatch, pretty)
	if err != nil {
		status = h.writeRequestError(w, asRequestError(err), pretty)
		return
	}

	if showExplorer {
		status = h.writeExplorer(w, allParams[0], string(body))
		return
	}

	status = code
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// decodeRequest reads and decodes the request body per its content type.
// Form-encoded bodies go through the request's own form machinery; all other
// types are read raw, subject to MaxBodyBytes.
func (h *Handler) decodeRequest(r *http.Request) (*httpquery.DecodedBody, *httpquery.RequestError) {
	contentType := r.Header.Get("Content-Type")
	token, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "application/x-www-form-urlencoded":
		if h.opt.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(nil, r.Body, h.opt.MaxBodyBytes)
		}
		if err := r.ParseForm(); err != nil {
			return nil, httpquery.NewRequestError(http.StatusBadRequest, "Unable to parse request body.")
		}
		decoded, err := httpquery.DecodeBody(contentType, nil, r.PostForm)
		return decoded, asRequestError(err)

	case "multipart/form-data":
		maxMemory := h.opt.MaxBodyBytes
		if maxMemory <= 0 {
			maxMemory = 32 << 20
		}
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, httpquery.NewRequestError(http.StatusBadRequest, "Unable to parse request body.")
		}
		decoded, err := httpquery.DecodeBody(contentType, nil, r.PostForm)
		return decoded, asRequestError(err)

	default:
		reader := io.Reader(r.Body)
		if h.opt.MaxBodyBytes > 0 {
			reader = io.LimitReader(r.Body, h.opt.MaxBodyBytes+1)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			return nil, httpquery.NewRequestError(http.StatusBadRequest, "Unable to read request body.")
		}
		defer r.Body.Close()
		if h.opt.MaxBodyBytes > 0 && int64(len(body)) > h.opt.MaxBodyBytes {
			return nil, httpquery.NewRequestError(http.StatusRequestEntityTooLarge, "Request body is too large.")
		}
		decoded, err := httpquery.DecodeBody(contentType, body, nil)
		return decoded, asRequestError(err)
	}
}

func asRequestError(err error) *httpquery.RequestError {
	if err == nil {
		return nil
	}
	var qerr *httpquery.RequestError
	if errors.As(err, &qerr) {
		return qerr
	}
	return httpquery.NewRequestError(http.StatusInternalServerError, err.Error())
}

// explorerParams salvages whatever operation fields the request carried,
// without validation, so the explorer can echo them.
func explorerParams(decoded *httpquery.DecodedBody, urlQuery url.Values) httpquery.OperationParams {
	payload := decoded.Single
	if decoded.IsBatch && len(decoded.Batch) > 0 {
		payload = decoded.Batch[0]
	}
	merged := httpquery.MergeQueryParams(payload, urlQuery)
	params := httpquery.OperationParams{Extra: merged}
	params.Query, _ = merged["query"].(string)
	params.OperationName, _ = merged["operationName"].(string)
	if vars, ok := merged["variables"].(map[string]any); ok {
		params.Variables = vars
	}
	return params
}

func (h *Handler) writeExplorer(w http.ResponseWriter, params httpquery.OperationParams, resultJSON string) int {
	page, err := graphiql.Render(params.Query, params.OperationName, params.Variables, resultJSON)
	if err != nil {
		return h.writeRequestError(w, asRequestError(err), false)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
	return http.StatusOK
}

// writeRequestError reports a request-level failure: the error's status, its
// headers, and a bare errors list as the body.
func (h *Handler) writeRequestError(w http.ResponseWriter, qerr *httpquery.RequestError, pretty bool) int {
	for name, value := range qerr.Headers {
		w.Header().Set(name, value)
	}
	body, err := httpquery.EncodeRequestError(qerr, pretty)
	if err != nil {
		http.Error(w, qerr.Message, qerr.StatusCode)
		return qerr.StatusCode
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(qerr.StatusCode)
	_, _ = w.Write(body)
	return qerr.StatusCode
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	allowed, wildcard := false, false
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			allowed, wildcard = true, true
		}
		if o == origin {
			allowed = true
		}
	}
	if !allowed {
		return
	}
	if wildcard {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}
