package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agrokalk/agrokalkulator/internal/access"
	"github.com/agrokalk/agrokalkulator/internal/catalog"
	"github.com/agrokalk/agrokalkulator/internal/config"
	"github.com/agrokalk/agrokalkulator/internal/estimate"
	"github.com/agrokalk/agrokalkulator/internal/history"
	"github.com/agrokalk/agrokalkulator/internal/logger"
	"github.com/agrokalk/agrokalkulator/internal/pricing"
	"github.com/agrokalk/agrokalkulator/internal/report"
	"github.com/agrokalk/agrokalkulator/internal/seed"
	"github.com/agrokalk/agrokalkulator/web"
)

type server struct {
	cfg       config.Config
	log       *zap.Logger
	machines  *catalog.MachineStore
	users     *catalog.UserStore
	gate      *access.Gate
	estimator estimate.Estimator
	auth      *authService
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

type quoteViewData struct {
	baseViewData
	MachinesJSON template.JS
	Types        []string
	Request      *pricing.QuoteRequest
	Summary      *pricing.Summary
	History      []history.Entry
}

type historyViewData struct {
	baseViewData
	History []history.Entry
}

type reportViewData struct {
	baseViewData
	Report report.Data
}

func main() {
	cfg := config.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync()

	machines := catalog.NewMachineStore(cfg.MachinesPath(), zlog.Named("machines"))
	users := catalog.NewUserStore(cfg.UsersPath(), zlog.Named("users"))

	if cfg.IsDev() {
		stats, err := seed.Run(machines, users, seed.Config{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		})
		if err != nil {
			zlog.Fatal("failed to run startup seed", zap.Error(err))
		}
		if stats.Machines > 0 || stats.Users > 0 {
			zlog.Info("seeded starter data", zap.Int("machines", stats.Machines), zap.Int("users", stats.Users))
		}
	}

	srv := &server{
		cfg:       cfg,
		log:       zlog,
		machines:  machines,
		users:     users,
		gate:      access.NewGate(cfg.AdminPassword),
		estimator: estimate.NewAnthropicEstimator(cfg.AnthropicAPIKey),
		auth:      newAuthService(users, cfg.SessionSecret),
	}

	r := chi.NewRouter()
	r.Use(srv.authMiddleware)
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	r.Get("/", srv.handleQuoteForm)
	r.Post("/quote", srv.handleQuoteSubmit)
	r.Post("/quote/distance", srv.handleDistanceEstimate)
	r.Post("/quote/estimate-cost", srv.handleCostEstimate)
	r.Get("/report", srv.handleReport)
	r.Get("/history", srv.handleHistory)
	r.Post("/history/clear", srv.handleHistoryClear)

	r.Get("/login", srv.handleLoginForm)
	r.Post("/login", srv.handleLoginSubmit)
	r.Post("/logout", srv.handleLogout)

	r.Get("/admin", srv.handleAdminHome)
	r.Post("/admin/access", srv.handleAdminAccess)
	r.Post("/admin/logout", srv.handleAdminLogout)
	r.Get("/admin/machines", srv.requireAdmin(srv.handleAdminMachines))
	r.Post("/admin/machines", srv.requireAdmin(srv.handleAdminMachinesCreate))
	r.Post("/admin/machines/{model}", srv.requireAdmin(srv.handleAdminMachinesUpdate))
	r.Post("/admin/machines/{model}/delete", srv.requireAdmin(srv.handleAdminMachinesDelete))
	r.Get("/admin/users", srv.requireAdmin(srv.handleAdminUsers))
	r.Post("/admin/users", srv.requireAdmin(srv.handleAdminUsersCreate))
	r.Post("/admin/users/{login}", srv.requireAdmin(srv.handleAdminUsersUpdate))
	r.Post("/admin/users/{login}/delete", srv.requireAdmin(srv.handleAdminUsersDelete))

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) handleQuoteForm(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "quote.html", s.quoteView(r, nil, nil, ""))
}

func (s *server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req, err := parseQuoteForm(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "quote.html", s.quoteView(r, nil, nil, err.Error()))
		return
	}

	snapshot := s.machines.List()
	summary, err := pricing.Compute(req, snapshot)
	if err != nil {
		s.log.Warn("quote computation failed", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderTemplate(w, "quote.html", s.quoteView(r, nil, nil, "Nie udało się obliczyć kosztów. Spróbuj ponownie."))
		return
	}

	entries := history.Push(s.historyFromRequest(r), history.NewEntry(req, summary))
	if encoded, err := history.Encode(entries); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     history.CookieName,
			Value:    encoded,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	} else {
		s.log.Warn("failed to encode quote history", zap.Error(err))
	}

	view := s.quoteView(r, &req, &summary, "")
	view.History = entries
	s.renderTemplate(w, "quote.html", view)
}

func (s *server) quoteView(r *http.Request, req *pricing.QuoteRequest, summary *pricing.Summary, errorMessage string) quoteViewData {
	snapshot := s.machines.List()
	return quoteViewData{
		baseViewData: baseViewData{ErrorMessage: errorMessage},
		MachinesJSON: machinesJSON(snapshot),
		Types:        s.machines.Types(),
		Request:      req,
		Summary:      summary,
		History:      s.historyFromRequest(r),
	}
}

// machinesJSON embeds the catalog snapshot for the dynamic machine rows on
// the quote form.
func machinesJSON(snapshot []catalog.Machine) template.JS {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return template.JS("[]")
	}
	return template.JS(data)
}

func (s *server) handleDistanceEstimate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}

	start := strings.TrimSpace(r.FormValue("start_postal_code"))
	end := strings.TrimSpace(r.FormValue("end_postal_code"))
	if start == "" || end == "" {
		writeJSONError(w, http.StatusBadRequest, "Proszę podać kod pocztowy początkowy i końcowy.")
		return
	}

	out, err := s.estimator.EstimateDistance(r.Context(), estimate.DistanceInput{
		StartPostalCode: start,
		EndPostalCode:   end,
	})
	if err != nil {
		s.log.Warn("distance estimation failed", zap.Error(err))
		writeJSONError(w, http.StatusBadGateway, "Nie udało się obliczyć odległości. Spróbuj ponownie.")
		return
	}

	// The quote always prices the round trip.
	writeJSON(w, http.StatusOK, map[string]float64{
		"oneWay":    out.Distance,
		"roundTrip": out.Distance * 2,
	})
}

func (s *server) handleCostEstimate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("distance")), 64)
	if err != nil || distance <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Ilość km musi być większa od 0.")
		return
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("weight")), 64)
	if err != nil || weight <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Waga maszyny musi być większa od 0.")
		return
	}

	out, err := s.estimator.EstimateTransportCost(r.Context(), estimate.CostInput{
		Distance:         distance,
		MachineWeight:    weight,
		Dimensions:       strings.TrimSpace(r.FormValue("dimensions")),
		Destination:      strings.TrimSpace(r.FormValue("destination")),
		MarketConditions: strings.TrimSpace(r.FormValue("market_conditions")),
	})
	if err != nil {
		s.log.Warn("cost estimation failed", zap.Error(err))
		writeJSONError(w, http.StatusBadGateway, "Nie udało się oszacować kosztu transportu. Spróbuj ponownie.")
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	entries := s.historyFromRequest(r)
	if len(entries) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	latest := entries[0]
	data := report.Build(latest.Request, s.machines.List(), latest.Summary, time.Now())
	s.renderTemplate(w, "report.html", reportViewData{Report: data})
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "history.html", historyViewData{History: s.historyFromRequest(r)})
}

func (s *server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     history.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

func (s *server) historyFromRequest(r *http.Request) []history.Entry {
	cookie, err := r.Cookie(history.CookieName)
	if err != nil {
		return nil
	}
	return history.Decode(cookie.Value)
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	if login == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Login i hasło są wymagane."}})
		return
	}

	if !s.auth.validateCredentials(login, password) {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Nieprawidłowy login lub hasło."}})
		return
	}

	s.auth.setSessionCookie(w, login)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// parseQuoteForm reads the submitted machine rows and distance fields.
// Machine rows arrive as machines.N.type / machines.N.model plus a
// machines.N.costs multi-value for the ticked surcharges.
func parseQuoteForm(r *http.Request) (pricing.QuoteRequest, error) {
	var req pricing.QuoteRequest

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("machines.%d.", i)
		machineType := strings.TrimSpace(r.FormValue(prefix + "type"))
		model := strings.TrimSpace(r.FormValue(prefix + "model"))
		if machineType == "" && model == "" {
			break
		}
		if model == "" {
			return req, fmt.Errorf("Proszę wybrać model maszyny.")
		}
		req.Machines = append(req.Machines, pricing.MachineSelection{
			Type:            machineType,
			Model:           model,
			AdditionalCosts: r.Form[prefix+"costs"],
		})
	}
	if len(req.Machines) == 0 {
		return req, fmt.Errorf("Proszę dodać przynajmniej jedną maszynę.")
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("distance")), 64)
	if err != nil || distance < 1 {
		return req, fmt.Errorf("Ilość km musi być większa od 0.")
	}
	req.Distance = distance

	req.StartPostalCode = strings.TrimSpace(r.FormValue("start_postal_code"))
	req.EndPostalCode = strings.TrimSpace(r.FormValue("end_postal_code"))

	manualRaw := strings.TrimSpace(r.FormValue("manual_additional_cost"))
	if manualRaw != "" {
		manual, err := strconv.ParseFloat(manualRaw, 64)
		if err != nil || manual < 0 {
			return req, fmt.Errorf("Dodatkowy koszt nie może być ujemny.")
		}
		req.ManualAdditionalCost = manual
	}

	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(template.FuncMap{
		"pln":       report.FormatPLN,
		"costLabel": catalog.CostLabel,
	}).ParseFS(
		web.Templates,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		// The admin panel sits behind its own shared-secret gate.
		if path == "/login" || path == "/admin" || strings.HasPrefix(path, "/admin/") ||
			path == "/static" || strings.HasPrefix(path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
