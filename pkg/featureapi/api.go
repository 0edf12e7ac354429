package featureapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/togglekit/pkg/diagnostic"
	"github.com/dmitrymomot/togglekit/pkg/feature"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// FaultSource lists recorded faults. *diagnostic.Journal implements it.
type FaultSource interface {
	Entries() []diagnostic.Entry
}

// FeatureView is the JSON shape of a feature.
type FeatureView struct {
	feature.Descriptor
	feature.Status
	PrimaryAction string             `json:"primary_action"`
	Keybinds      [3]feature.Keybind `json:"keybinds"`
}

type policyRequest struct {
	Enforce *bool `json:"enforce"`
}

type policyResponse struct {
	Enforced bool     `json:"enforced"`
	Affected []string `json:"affected"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Option configures the API.
type Option func(*API)

// WithFaults exposes recorded faults on GET /faults.
func WithFaults(src FaultSource) Option {
	return func(a *API) { a.faults = src }
}

// WithLogger sets the logger for state changes. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// API serves a registry.
type API struct {
	reg    *feature.Registry
	faults FaultSource
	log    *slog.Logger

	mu       sync.Mutex
	enforced bool
}

// New returns an API serving reg.
func New(reg *feature.Registry, opts ...Option) *API {
	a := &API{reg: reg, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("featureapi"))
	return a
}

// Router returns the chi router. Mount it wherever the host wants.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/features", func(r chi.Router) {
		r.Get("/", a.list)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", a.get)
			r.Post("/toggle", a.toggle)
			r.Post("/on", a.force(true))
			r.Post("/off", a.force(false))
		})
	})
	r.Put("/policy", a.policy)
	r.Get("/policy", a.getPolicy)
	r.Get("/faults", a.listFaults)

	return r
}

// EnforceCompatibility applies the policy under the API lock, so hosts can
// set it at startup through the same path as PUT /policy.
func (a *API) EnforceCompatibility(ctx context.Context, enforce bool) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enforced = enforce
	return a.reg.EnforceCompatibility(ctx, enforce)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	var f feature.Filter
	if c := r.URL.Query().Get("category"); c != "" {
		cat, err := feature.ParseCategory(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		f.Category = cat
	}
	f.Tags = r.URL.Query()["tag"]

	a.mu.Lock()
	features := a.reg.List(f)
	views := make([]FeatureView, 0, len(features))
	for _, l := range features {
		views = append(views, view(l))
	}
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, views)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	a.withFeature(w, r, func(context.Context, *feature.Lifecycle) {})
}

func (a *API) toggle(w http.ResponseWriter, r *http.Request) {
	a.withFeature(w, r, func(ctx context.Context, l *feature.Lifecycle) {
		l.Toggle(ctx)
		a.log.InfoContext(ctx, "feature toggled", slog.Bool("enabled", l.IsEnabled()), slog.Bool("active", l.IsActive()))
	})
}

func (a *API) force(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.withFeature(w, r, func(ctx context.Context, l *feature.Lifecycle) {
			if l.IsEnabled() == on {
				return
			}
			l.SetEnabled(ctx, on)
			a.log.InfoContext(ctx, "feature set", slog.Bool("enabled", on), slog.Bool("active", l.IsActive()))
		})
	}
}

// withFeature resolves {name}, runs fn under the lock and writes the resulting view.
func (a *API) withFeature(w http.ResponseWriter, r *http.Request, fn func(context.Context, *feature.Lifecycle)) {
	l, err := a.reg.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	ctx := logger.ContextWithAttrs(r.Context(), logger.Feature(l.Name()))

	a.mu.Lock()
	fn(ctx, l)
	v := view(l)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, v)
}

func (a *API) policy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Join(ErrInvalidRequest, err))
		return
	}
	if req.Enforce == nil {
		writeError(w, http.StatusBadRequest, errors.Join(ErrInvalidRequest, errors.New("enforce is required")))
		return
	}

	affected := a.EnforceCompatibility(r.Context(), *req.Enforce)
	if affected == nil {
		affected = []string{}
	}
	a.log.InfoContext(r.Context(), "compatibility policy changed", slog.Bool("enforce", *req.Enforce), logger.Features(affected))
	writeJSON(w, http.StatusOK, policyResponse{Enforced: *req.Enforce, Affected: affected})
}

func (a *API) getPolicy(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	enforced := a.enforced
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, policyResponse{Enforced: enforced, Affected: []string{}})
}

func (a *API) listFaults(w http.ResponseWriter, _ *http.Request) {
	entries := []diagnostic.Entry{}
	if a.faults != nil {
		entries = append(entries, a.faults.Entries()...)
	}
	writeJSON(w, http.StatusOK, entries)
}

func view(l *feature.Lifecycle) FeatureView {
	return FeatureView{
		Descriptor:    l.Descriptor(),
		Status:        l.Status(),
		PrimaryAction: l.PrimaryAction(),
		Keybinds:      l.Keybinds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
