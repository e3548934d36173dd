package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agrokalk/agrokalkulator/internal/access"
	"github.com/agrokalk/agrokalkulator/internal/catalog"
)

type adminLoginViewData struct {
	baseViewData
}

type adminMachinesViewData struct {
	baseViewData
	Machines    []catalog.Machine
	FieldErrors map[string][]string
	Form        catalog.Machine
}

type adminUsersViewData struct {
	baseViewData
	Users       []catalog.User
	FieldErrors map[string][]string
	FormLogin   string
}

func (s *server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdminAuthenticated(r, s.auth) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *server) handleAdminHome(w http.ResponseWriter, r *http.Request) {
	if isAdminAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/admin/machines", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "admin_login.html", adminLoginViewData{})
}

func (s *server) handleAdminAccess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	switch err := s.gate.Check(r.FormValue("password")); {
	case errors.Is(err, access.ErrNotConfigured):
		s.log.Error("admin password is not configured")
		w.WriteHeader(http.StatusInternalServerError)
		s.renderTemplate(w, "admin_login.html", adminLoginViewData{baseViewData: baseViewData{ErrorMessage: "Błąd konfiguracji serwera."}})
	case err != nil:
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "admin_login.html", adminLoginViewData{baseViewData: baseViewData{ErrorMessage: "Nieprawidłowe hasło."}})
	default:
		s.auth.setAdminCookie(w)
		http.Redirect(w, r, "/admin/machines", http.StatusSeeOther)
	}
}

func (s *server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearAdminCookie(w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *server) handleAdminMachines(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "admin_machines.html", adminMachinesViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Machines: s.machines.List(),
	})
}

func (s *server) handleAdminMachinesCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	machine, err := parseMachineForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/machines?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	if err := s.machines.Add(machine); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusBadRequest)
			s.renderTemplate(w, "admin_machines.html", adminMachinesViewData{
				Machines:    s.machines.List(),
				FieldErrors: verr.Fields,
				Form:        machine,
			})
			return
		}

		s.redirectMachineError(w, r, err, "Nie udało się dodać maszyny. Błąd serwera.")
		return
	}

	http.Redirect(w, r, "/admin/machines?success="+url.QueryEscape("Maszyna została dodana."), http.StatusSeeOther)
}

func (s *server) handleAdminMachinesUpdate(w http.ResponseWriter, r *http.Request) {
	originalModel, err := url.PathUnescape(chi.URLParam(r, "model"))
	if err != nil || originalModel == "" {
		http.Error(w, "invalid machine model", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	machine, err := parseMachineForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/machines?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	if err := s.machines.Update(originalModel, machine); err != nil {
		s.redirectMachineError(w, r, err, "Błąd serwera podczas aktualizacji.")
		return
	}

	http.Redirect(w, r, "/admin/machines?success="+url.QueryEscape("Maszyna została zaktualizowana."), http.StatusSeeOther)
}

func (s *server) handleAdminMachinesDelete(w http.ResponseWriter, r *http.Request) {
	model, err := url.PathUnescape(chi.URLParam(r, "model"))
	if err != nil || model == "" {
		http.Error(w, "invalid machine model", http.StatusBadRequest)
		return
	}

	if err := s.machines.Delete(model); err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			http.Redirect(w, r, "/admin/machines?error="+url.QueryEscape("Nie znaleziono maszyny do usunięcia."), http.StatusSeeOther)
			return
		}
		s.log.Error("failed to delete machine", zap.Error(err))
		http.Redirect(w, r, "/admin/machines?error="+url.QueryEscape("Błąd serwera podczas usuwania."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/machines?success="+url.QueryEscape("Maszyna została usunięta."), http.StatusSeeOther)
}

func (s *server) redirectMachineError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	message := fallback

	var dup *catalog.DuplicateKeyError
	var notFound *catalog.NotFoundError
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &dup):
		message = "Maszyna o tym modelu już istnieje."
	case errors.As(err, &notFound):
		message = "Nie znaleziono maszyny do zaktualizowania."
	case errors.As(err, &verr):
		message = "Nieprawidłowe dane maszyny."
	default:
		s.log.Error("machine mutation failed", zap.Error(err))
	}

	http.Redirect(w, r, "/admin/machines?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func (s *server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "admin_users.html", adminUsersViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Users: s.users.List(),
	})
}

func (s *server) handleAdminUsersCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	user := parseUserForm(r, "")
	if err := s.users.Add(user); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusBadRequest)
			s.renderTemplate(w, "admin_users.html", adminUsersViewData{
				Users:       s.users.List(),
				FieldErrors: verr.Fields,
				FormLogin:   user.Login,
			})
			return
		}

		s.redirectUserError(w, r, err, "Błąd serwera. Nie udało się dodać użytkownika.")
		return
	}

	http.Redirect(w, r, "/admin/users?success="+url.QueryEscape("Użytkownik został dodany."), http.StatusSeeOther)
}

func (s *server) handleAdminUsersUpdate(w http.ResponseWriter, r *http.Request) {
	originalLogin, err := url.PathUnescape(chi.URLParam(r, "login"))
	if err != nil || originalLogin == "" {
		http.Error(w, "invalid user login", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// An empty password field keeps the stored credential.
	keepHash := ""
	if existing, ok := s.users.FindByLogin(originalLogin); ok {
		keepHash = existing.Hash
	}
	user := parseUserForm(r, keepHash)

	if err := s.users.Update(originalLogin, user); err != nil {
		s.redirectUserError(w, r, err, "Błąd serwera podczas aktualizacji.")
		return
	}

	http.Redirect(w, r, "/admin/users?success="+url.QueryEscape("Użytkownik został zaktualizowany."), http.StatusSeeOther)
}

func (s *server) handleAdminUsersDelete(w http.ResponseWriter, r *http.Request) {
	login, err := url.PathUnescape(chi.URLParam(r, "login"))
	if err != nil || login == "" {
		http.Error(w, "invalid user login", http.StatusBadRequest)
		return
	}

	if err := s.users.Delete(login); err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			http.Redirect(w, r, "/admin/users?error="+url.QueryEscape("Nie znaleziono użytkownika do usunięcia."), http.StatusSeeOther)
			return
		}
		s.log.Error("failed to delete user", zap.Error(err))
		http.Redirect(w, r, "/admin/users?error="+url.QueryEscape("Błąd serwera podczas usuwania."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/users?success="+url.QueryEscape("Użytkownik został usunięty."), http.StatusSeeOther)
}

func (s *server) redirectUserError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	message := fallback

	var dup *catalog.DuplicateKeyError
	var notFound *catalog.NotFoundError
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &dup):
		message = "Użytkownik o tym adresie email już istnieje."
	case errors.As(err, &notFound):
		message = "Nie znaleziono użytkownika do zaktualizowania."
	case errors.As(err, &verr):
		message = "Nieprawidłowe dane użytkownika."
	default:
		s.log.Error("user mutation failed", zap.Error(err))
	}

	http.Redirect(w, r, "/admin/users?error="+url.QueryEscape(message), http.StatusSeeOther)
}

// parseMachineForm coerces the machine form fields. Empty numeric inputs
// become 0; non-negativity is enforced by the catalog schema.
func parseMachineForm(r *http.Request) (catalog.Machine, error) {
	m := catalog.Machine{
		Type:  strings.TrimSpace(r.FormValue("type")),
		Model: strings.TrimSpace(r.FormValue("model")),
	}

	var err error
	if m.Weight, err = parseCoercedNumber(r.FormValue("weight"), "weight"); err != nil {
		return m, err
	}
	if m.Rate, err = parseCoercedNumber(r.FormValue("rate"), "rate"); err != nil {
		return m, err
	}
	if m.Costs.Przeglad0, err = parseCoercedNumber(r.FormValue("przeglad_0"), "przeglad_0"); err != nil {
		return m, err
	}
	if m.Costs.Skladanie, err = parseCoercedNumber(r.FormValue("skladanie"), "skladanie"); err != nil {
		return m, err
	}
	if m.Costs.Uruchomienie, err = parseCoercedNumber(r.FormValue("uruchomienie"), "uruchomienie"); err != nil {
		return m, err
	}
	if m.Costs.PrzegladPo100Mtg, err = parseCoercedNumber(r.FormValue("przeglad_po_100_mtg"), "przeglad_po_100_mtg"); err != nil {
		return m, err
	}
	if m.Costs.PrzegladPo500Mtg, err = parseCoercedNumber(r.FormValue("przeglad_po_500_mtg"), "przeglad_po_500_mtg"); err != nil {
		return m, err
	}
	if m.Costs.PrzegladPo1000Mtg, err = parseCoercedNumber(r.FormValue("przeglad_po_1000_mtg"), "przeglad_po_1000_mtg"); err != nil {
		return m, err
	}

	return m, nil
}

// parseUserForm builds a user record from the form. The submitted password
// is stored as its sha256 digest; when the field is empty the provided
// fallback hash is kept instead.
func parseUserForm(r *http.Request, keepHash string) catalog.User {
	user := catalog.User{
		Login: strings.TrimSpace(r.FormValue("login")),
		Hash:  keepHash,
	}
	if password := r.FormValue("hash"); password != "" {
		user.Hash = access.HashPassword(password)
	}
	return user
}

func parseCoercedNumber(raw, field string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("pole %s musi być liczbą", field)
	}
	return value, nil
}
