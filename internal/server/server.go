// =============================================================================
// Kebab Dashboard - HTTP Surface
// =============================================================================
//
// Server-rendered pages and JSON endpoints over the core packages:
//
//   GET  /                         login form (redirects when signed in)
//   POST /                         sign in
//   POST /logout                   sign out
//   GET  /healthz                  liveness
//
//   behind the session gate:
//   GET  /dashboard?date=          summary, orders and best sellers
//   GET  /dashboard/export/{kind}  pdf | xlsx download, print page
//   GET  /weather?lat=&lon=        weather widget data
//   GET|POST       /api/{resource}
//   PUT|DELETE     /api/{resource}/{id}
//
// Every failure ends the current action: backend errors are shown inline
// with a retry link, form errors never reach the backend, and a failed
// session check redirects to the login page.
//
// =============================================================================

package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/internal/backend"
	"github.com/ginjaninja78/kebab-dashboard/internal/catalog"
	"github.com/ginjaninja78/kebab-dashboard/internal/report"
	"github.com/ginjaninja78/kebab-dashboard/internal/session"
	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/ginjaninja78/kebab-dashboard/internal/weather"
	"github.com/ginjaninja78/kebab-dashboard/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// =============================================================================
// COLLABORATORS
// =============================================================================

// TransactionSource supplies the flat transaction list.
type TransactionSource interface {
	Transactions(ctx context.Context) ([]transaction.Record, []*transaction.Issue, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (backend.LoginResult, error)
}

// WeatherSource supplies weather reports.
type WeatherSource interface {
	Report(ctx context.Context, lat, lon float64) (weather.Report, error)
}

// Catalog runs catalog edits.
type Catalog interface {
	List(ctx context.Context, resource string) (any, error)
	Save(ctx context.Context, item catalog.Item, mode catalog.FormMode) error
	Remove(ctx context.Context, resource string, id int64) error
}

// Deps are the server's collaborators. Catalog and Weather are optional;
// their routes are not mounted when nil.
type Deps struct {
	Transactions TransactionSource
	Auth         Authenticator
	Catalog      Catalog
	Weather      WeatherSource

	Gate  *session.Gate
	Store session.Store

	Aggregator *aggregator.Aggregator
	Exporter   *report.Exporter
	Logger     *logger.Logger
}

type app struct {
	Deps
}

// NewRouter builds the HTTP handler.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Aggregator == nil {
		deps.Aggregator = aggregator.New()
	}
	if deps.Exporter == nil {
		deps.Exporter = report.NewExporter("")
	}

	a := &app{Deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(deps.Logger.HTTPMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", a.handleLoginPage)
	r.Post("/", a.handleLogin)
	r.Post("/logout", a.handleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(deps.Gate.Middleware("/"))

		pr.Get("/dashboard", a.handleDashboard)
		pr.Get("/dashboard/export/{kind}", a.handleExport)

		if deps.Weather != nil {
			pr.Get("/weather", a.handleWeather)
		}

		if deps.Catalog != nil {
			pr.Route("/api/{resource}", func(api chi.Router) {
				api.Get("/", a.handleCatalogList)
				api.Post("/", a.handleCatalogCreate)
				api.Put("/{id}", a.handleCatalogUpdate)
				api.Delete("/{id}", a.handleCatalogDelete)
			})
		}
	})

	return r
}

func (a *app) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		a.Logger.Error("failed to render page", "page", name, "error", err)
	}
}
