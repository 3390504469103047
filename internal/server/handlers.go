// =============================================================================
// Kebab Dashboard - HTTP Handlers
// =============================================================================
//
// HANDLERS:
//   login / logout       - form validation, backend login, cookie store
//   dashboard            - aggregate and render, inline error with retry
//   export               - buffer the document, then send it whole
//   weather              - JSON passthrough of the weather report
//   catalog API          - JSON CRUD over catalog.Service
//
// JSON errors use the shape {"error": {"message": ..., "code": ...}}.
//
// =============================================================================

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/internal/backend"
	"github.com/ginjaninja78/kebab-dashboard/internal/catalog"
	"github.com/ginjaninja78/kebab-dashboard/internal/report"
	"github.com/ginjaninja78/kebab-dashboard/internal/session"
	"github.com/ginjaninja78/kebab-dashboard/internal/weather"
)

// =============================================================================
// LOGIN
// =============================================================================

type loginView struct {
	Email string
	Error string
}

func (a *app) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if state, _ := a.Gate.Request(r); state == session.Authenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	a.render(w, http.StatusOK, "login.html", loginView{})
}

func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, http.StatusBadRequest, "login.html", loginView{Error: "Form tidak valid."})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	view := loginView{Email: email}

	if email == "" || password == "" {
		view.Error = "Email dan password wajib diisi!"
		a.render(w, http.StatusBadRequest, "login.html", view)
		return
	}

	result, err := a.Auth.Login(r.Context(), email, password)
	if err != nil {
		status := http.StatusBadGateway
		view.Error = "Login gagal, silakan coba lagi."
		if errors.Is(err, backend.ErrUnauthorized) {
			status = http.StatusUnauthorized
			view.Error = "Email atau password salah."
		}
		a.Logger.Warn("login failed", "email", email, "error", err)
		a.render(w, status, "login.html", view)
		return
	}

	a.Store.Save(w, session.Credential{Token: result.Token, User: result.User})
	a.Logger.Info("user signed in", "email", result.User.Email)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.Store.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// =============================================================================
// DASHBOARD
// =============================================================================

type dashboardView struct {
	User  session.Profile
	Date  string
	Error string
	Retry string

	Report      report.PrintView
	TopProducts []aggregator.ProductRank
	Issues      int
	ExportQuery string
}

// parseDay reads the optional ?date= filter.
func parseDay(r *http.Request) (*aggregator.Day, error) {
	value := strings.TrimSpace(r.URL.Query().Get("date"))
	if value == "" {
		return nil, nil
	}
	day, err := aggregator.ParseDay(value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := session.ProfileFrom(r.Context())
	view := dashboardView{
		User:  user,
		Date:  r.URL.Query().Get("date"),
		Retry: r.URL.RequestURI(),
	}

	day, err := parseDay(r)
	if err != nil {
		view.Error = "Tanggal tidak valid: " + view.Date
		a.render(w, http.StatusBadRequest, "dashboard.html", view)
		return
	}

	records, issues, err := a.Transactions.Transactions(r.Context())
	if err != nil {
		a.Logger.Error("failed to fetch transactions", "error", err)
		view.Error = "Gagal memuat data transaksi."
		a.render(w, http.StatusBadGateway, "dashboard.html", view)
		return
	}

	result := a.Aggregator.Aggregate(records, day)

	view.Report = report.BuildPrintView(result.Orders, result.Summary, day, a.Exporter.Now(), result.Location)
	view.TopProducts = result.TopProducts
	view.Issues = len(issues)
	if day != nil {
		view.ExportQuery = "?" + url.Values{"date": {day.String()}}.Encode()
	}

	a.render(w, http.StatusOK, "dashboard.html", view)
}

// =============================================================================
// EXPORTS
// =============================================================================

func (a *app) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	day, err := parseDay(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, _, err := a.Transactions.Transactions(r.Context())
	if err != nil {
		a.Logger.Error("failed to fetch transactions for export", "kind", kind, "error", err)
		http.Error(w, "Gagal memuat data transaksi.", http.StatusBadGateway)
		return
	}

	result := a.Aggregator.Aggregate(records, day)

	var buf bytes.Buffer
	if err := a.Exporter.Write(kind, &buf, result); err != nil {
		a.Logger.Error("export failed", "kind", kind, "error", err)
		http.Error(w, "Ekspor gagal.", http.StatusInternalServerError)
		return
	}

	disposition := "inline"
	if kind.Attachment() {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, a.Exporter.FileName(kind, day)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)

	a.Logger.Info("report exported", "kind", kind, "orders", len(result.Orders))
}

// =============================================================================
// WEATHER
// =============================================================================

func (a *app) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_coordinates", "lat and lon must be numbers")
		return
	}

	rep, err := a.Weather.Report(r.Context(), lat, lon)
	if err != nil {
		a.Logger.Warn("weather unavailable", "lat", lat, "lon", lon, "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, weather.ErrNoAPIKey) {
			status = http.StatusServiceUnavailable
		}
		writeAPIError(w, status, "weather_unavailable", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// =============================================================================
// CATALOG API
// =============================================================================

func (a *app) catalogResource(w http.ResponseWriter, r *http.Request) (string, bool) {
	resource, err := catalog.ParseResource(chi.URLParam(r, "resource"))
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "unknown_resource", err.Error())
		return "", false
	}
	return resource, true
}

func (a *app) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	resource, ok := a.catalogResource(w, r)
	if !ok {
		return
	}

	items, err := a.Catalog.List(r.Context(), resource)
	if err != nil {
		a.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *app) handleCatalogCreate(w http.ResponseWriter, r *http.Request) {
	a.saveCatalogItem(w, r, catalog.Creating(), http.StatusCreated)
}

func (a *app) handleCatalogUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_id", "id must be a number")
		return
	}
	a.saveCatalogItem(w, r, catalog.Editing(id), http.StatusOK)
}

func (a *app) saveCatalogItem(w http.ResponseWriter, r *http.Request, mode catalog.FormMode, status int) {
	resource, ok := a.catalogResource(w, r)
	if !ok {
		return
	}

	item, err := catalog.NewItem(resource)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "unknown_resource", err.Error())
		return
	}
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if err := a.Catalog.Save(r.Context(), item, mode); err != nil {
		a.writeCatalogError(w, err)
		return
	}
	writeJSON(w, status, map[string]string{"status": "ok", "mode": mode.String()})
}

func (a *app) handleCatalogDelete(w http.ResponseWriter, r *http.Request) {
	resource, ok := a.catalogResource(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_id", "id must be a number")
		return
	}

	if err := a.Catalog.Remove(r.Context(), resource, id); err != nil {
		a.writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrMissingField):
		writeAPIError(w, http.StatusBadRequest, "missing_field", err.Error())
	case errors.Is(err, catalog.ErrUnknownReference):
		writeAPIError(w, http.StatusUnprocessableEntity, "unknown_reference", err.Error())
	case errors.Is(err, backend.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		a.Logger.Error("catalog request failed", "error", err)
		writeAPIError(w, http.StatusBadGateway, "backend_error", err.Error())
	}
}

// ---------- helpers ----------

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	var e apiError
	e.Error.Code = code
	e.Error.Message = message
	writeJSON(w, status, e)
}
