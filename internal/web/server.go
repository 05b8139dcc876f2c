// Package web is the HTML and JSON surface of the counter.
package web

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"poscounter/internal/catalog"
	"poscounter/internal/history"
	"poscounter/internal/middleware"
	"poscounter/internal/order"
	"poscounter/internal/security"
	"poscounter/internal/session"
)

// TransactionStore is the persisted log as seen by the handlers.
type TransactionStore interface {
	order.Recorder
	history.Lister
	Count(ctx context.Context) (int, error)
}

type Server struct {
	catalog  *catalog.Service
	store    TransactionStore
	viewer   *history.Viewer
	sessions *session.Store
	csrf     *security.TokenStore
	location *time.Location
	now      func() time.Time
}

// Options carries the collaborators a Server needs.
type Options struct {
	Catalog  *catalog.Service
	Store    TransactionStore
	Sessions *session.Store
	CSRF     *security.TokenStore
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewServer(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Server{
		catalog:  opts.Catalog,
		store:    opts.Store,
		viewer:   history.NewViewer(opts.Store),
		sessions: opts.Sessions,
		csrf:     opts.CSRF,
		location: opts.Location,
		now:      opts.Now,
	}
}

// Router wires every route and the shared middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging, middleware.Recover)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/preferences", s.handlePreferences).Methods(http.MethodPost)
	r.HandleFunc("/cart/add", s.handleAddToCart).Methods(http.MethodPost)
	r.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	r.HandleFunc("/navigate/history", s.handleViewHistory).Methods(http.MethodPost)
	r.HandleFunc("/navigate/back", s.handleBack).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", s.handleAPICart).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleAPIHistory).Methods(http.MethodGet)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// mux skips Use middleware for NotFoundHandler, so chain it here.
	r.NotFoundHandler = middleware.RequestID(middleware.Logging(middleware.Recover(http.HandlerFunc(notFound))))
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`<html><body>
	<h1>404 - Page Not Found</h1>
	<p>Sorry, the page you requested was not found.</p>
	<a href="/">Return to the counter</a>
</body></html>`))
}
