package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/internal/redact"
	"github.com/aretw0/formbind/pkg/definition"
	"github.com/aretw0/formbind/pkg/form"
	"github.com/aretw0/formbind/pkg/model"
	"github.com/aretw0/formbind/pkg/ports"
	"github.com/aretw0/formbind/pkg/schema"
	"github.com/aretw0/formbind/pkg/session"
	"github.com/aretw0/formbind/pkg/valuepath"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server exposes live forms over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	formOpts []formbind.Option
	redactor *redact.Redactor
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFormOptions are applied to every form built by POST /forms.
func WithFormOptions(opts ...formbind.Option) Option {
	return func(s *Server) {
		s.formOpts = append(s.formOpts, opts...)
	}
}

// WithRedactor masks matching keys in the value snapshots sent to event subscribers.
func WithRedactor(r *redact.Redactor) Option {
	return func(s *Server) {
		s.redactor = r
	}
}

// NewServer creates a server over the session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	s.Streams.redactor = s.redactor
	return s
}

// NewHandler creates the HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/forms", func(r chi.Router) {
		r.Post("/", s.CreateForm)
		r.Get("/", s.ListForms)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.DeleteForm)
			r.Get("/values", s.GetValues)
			r.Get("/values/*", s.GetValues)
			r.Put("/values/*", s.PutValue)
			r.Post("/blur/*", s.Blur)
			r.Get("/fields", s.GetFields)
			r.Post("/validate", s.Validate)
			r.Post("/submit", s.Submit)
			r.Post("/reset", s.Reset)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateResponse is the body of POST /forms.
type CreateResponse struct {
	ID string `json:"id"`
}

// ValueRequest is the body of PUT /forms/{id}/values/*.
type ValueRequest struct {
	Value any `json:"value"`
}

// ValueResponse reports a value and, after a change or blur, its validation.
type ValueResponse struct {
	Path       string `json:"path"`
	Value      any    `json:"value"`
	Error      string `json:"error,omitempty"`
	Validated  bool   `json:"validated,omitempty"`
	Superseded bool   `json:"superseded,omitempty"`
}

// ResultResponse is the body of validate and submit.
type ResultResponse struct {
	HasError bool `json:"hasError"`
	Errors   any  `json:"errors,omitempty"`
	Values   any  `json:"values,omitempty"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "formbind-http",
		"version": strings.TrimSpace(formbind.Version),
	})
}

// CreateForm handles POST /forms. The body is a JSON form definition.
func (s *Server) CreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	doc, err := definition.ParseJSON(data)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	// Mount validation outlives the request.
	f, err := definition.Build(withoutCancel(r), doc, s.formOpts...)
	if err != nil {
		s.fail(w, statusOf(err), err)
		return
	}
	id, err := s.Sessions.Create(r.Context(), f)
	if err != nil {
		f.Close()
		s.fail(w, statusOf(err), err)
		return
	}
	s.Streams.Track(id, f)
	s.logger.Info("form created", "form_id", id, "fields", len(f.Bindings()))
	s.writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

// ListForms handles GET /forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// DeleteForm handles DELETE /forms/{id}.
func (s *Server) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, statusOf(err), err)
		return
	}
	s.Streams.Untrack(id)
	w.WriteHeader(http.StatusNoContent)
}

// GetValues handles GET /forms/{id}/values and GET /forms/{id}/values/{path}.
func (s *Server) GetValues(w http.ResponseWriter, r *http.Request) {
	path := fieldPath(r)
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		if path == "" {
			return http.StatusOK, f.Values(), nil
		}
		v, ok := f.Model().LookupValuePath(valuepath.Split(path))
		if !ok {
			return http.StatusNotFound, ErrorResponse{Error: "no value at " + path}, nil
		}
		return http.StatusOK, ValueResponse{Path: path, Value: v}, nil
	})
}

// PutValue handles PUT /forms/{id}/values/{path}: a control change.
func (s *Server) PutValue(w http.ResponseWriter, r *http.Request) {
	path := fieldPath(r)
	var body ValueRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		out, err := f.Change(r.Context(), path, body.Value)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, valueResponse(f, path, out), nil
	})
}

// Blur handles POST /forms/{id}/blur/{path}.
func (s *Server) Blur(w http.ResponseWriter, r *http.Request) {
	path := fieldPath(r)
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		out, err := f.Blur(r.Context(), path)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, valueResponse(f, path, out), nil
	})
}

// GetFields handles GET /forms/{id}/fields: the control props of every binding.
func (s *Server) GetFields(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		bindings := f.Bindings()
		props := make([]any, 0, len(bindings))
		for _, b := range bindings {
			props = append(props, b.Props())
		}
		return http.StatusOK, props, nil
	})
}

// Validate handles POST /forms/{id}/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		res, err := f.ValidateAll(r.Context(), model.TriggerAll)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, ResultResponse{HasError: res.HasError, Errors: errorsOf(res)}, nil
	})
}

// Submit handles POST /forms/{id}/submit?filter=mounted|all. A rejected submit is
// answered with 422 and the error tree.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	filter, err := form.ParseValueFilter(r.URL.Query().Get("filter"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		res, err := f.Submit(r.Context(), filter)
		if err != nil {
			return 0, nil, err
		}
		status := http.StatusOK
		if res.HasError {
			status = http.StatusUnprocessableEntity
		}
		return status, ResultResponse{HasError: res.HasError, Errors: errorsOf(res), Values: res.Values}, nil
	})
}

// Reset handles POST /forms/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.withForm(w, r, func(f *formbind.Form) (int, any, error) {
		if err := f.Reset(); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, f.Values(), nil
	})
}

// withForm runs fn under the form lock and writes its result.
func (s *Server) withForm(w http.ResponseWriter, r *http.Request, fn func(*formbind.Form) (int, any, error)) {
	id := chi.URLParam(r, "id")
	var (
		status int
		body   any
	)
	err := s.Sessions.WithForm(r.Context(), id, func(_ context.Context, f *formbind.Form) error {
		var err error
		status, body, err = fn(f)
		return err
	})
	if err != nil {
		s.fail(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, status, body)
}

func valueResponse(f *formbind.Form, path string, out model.Outcome) ValueResponse {
	resp := ValueResponse{
		Path:       path,
		Value:      f.Model().GetValue(path, nil),
		Validated:  out.Ran,
		Superseded: out.Superseded,
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	return resp
}

func errorsOf(res form.Result) any {
	if !res.HasError {
		return nil
	}
	return res.Errors
}

func statusOf(err error) int {
	var (
		panicErr *model.ValidatorPanicError
		aggr     *schema.AggregateError
	)
	switch {
	case errors.Is(err, ports.ErrFormNotFound), errors.Is(err, model.ErrNoBinding):
		return http.StatusNotFound
	case errors.Is(err, model.ErrShapeConflict), errors.Is(err, model.ErrTupleArity),
		errors.Is(err, model.ErrReadOnlyField), errors.Is(err, model.ErrNotArray),
		errors.Is(err, valuepath.ErrNotContainer), errors.Is(err, valuepath.ErrIndexExpected):
		return http.StatusConflict
	case errors.Is(err, model.ErrRootAsField), errors.Is(err, model.ErrEmptyPath),
		errors.Is(err, valuepath.ErrIndexOutOfRange), errors.As(err, &aggr):
		return http.StatusBadRequest
	case errors.As(err, &panicErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "err", err)
	}
	resp := ErrorResponse{Error: err.Error()}
	for _, e := range schema.ValidationErrors(err) {
		resp.Details = append(resp.Details, e.Error())
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// fieldPath reads the wildcard path; "/" separators are accepted as ".".
func fieldPath(r *http.Request) string {
	return strings.ReplaceAll(chi.URLParam(r, "*"), "/", ".")
}

func withoutCancel(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
