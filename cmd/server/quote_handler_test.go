package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/agrokalk/agrokalkulator/internal/estimate"
	"github.com/agrokalk/agrokalkulator/internal/history"
)

type stubEstimator struct {
	distance float64
	cost     float64
	err      error
}

func (s *stubEstimator) EstimateDistance(ctx context.Context, in estimate.DistanceInput) (estimate.DistanceOutput, error) {
	if s.err != nil {
		return estimate.DistanceOutput{}, s.err
	}
	return estimate.DistanceOutput{Distance: s.distance}, nil
}

func (s *stubEstimator) EstimateTransportCost(ctx context.Context, in estimate.CostInput) (estimate.CostOutput, error) {
	if s.err != nil {
		return estimate.CostOutput{}, s.err
	}
	return estimate.CostOutput{EstimatedCost: s.cost}, nil
}

func TestDistanceEstimate_DoublesForRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	srv.estimator = &stubEstimator{distance: 295}

	form := url.Values{}
	form.Set("start_postal_code", "00-001")
	form.Set("end_postal_code", "30-079")
	rec := postForm(t, srv.handleDistanceEstimate, "/quote/distance", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var payload map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if payload["oneWay"] != 295 || payload["roundTrip"] != 590 {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestDistanceEstimate_MissingPostalCodes(t *testing.T) {
	srv := newTestServer(t)
	srv.estimator = &stubEstimator{distance: 295}

	form := url.Values{}
	form.Set("start_postal_code", "00-001")
	rec := postForm(t, srv.handleDistanceEstimate, "/quote/distance", form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDistanceEstimate_EstimatorFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t)
	srv.estimator = &stubEstimator{err: errors.New("api unreachable")}

	form := url.Values{}
	form.Set("start_postal_code", "00-001")
	form.Set("end_postal_code", "30-079")
	rec := postForm(t, srv.handleDistanceEstimate, "/quote/distance", form)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error message in payload: %v", payload)
	}
}

func TestCostEstimate_ReturnsModelOutput(t *testing.T) {
	srv := newTestServer(t)
	srv.estimator = &stubEstimator{cost: 4200}

	form := url.Values{}
	form.Set("distance", "295")
	form.Set("weight", "5000")
	form.Set("destination", "Kraków")
	rec := postForm(t, srv.handleCostEstimate, "/quote/estimate-cost", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var payload estimate.CostOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if payload.EstimatedCost != 4200 {
		t.Fatalf("estimated cost = %v, want 4200", payload.EstimatedCost)
	}
}

func TestCostEstimate_RejectsNonPositiveInputs(t *testing.T) {
	srv := newTestServer(t)
	srv.estimator = &stubEstimator{cost: 4200}

	for _, tc := range []struct{ distance, weight string }{
		{"0", "5000"},
		{"295", "0"},
		{"abc", "5000"},
		{"295", ""},
	} {
		form := url.Values{}
		form.Set("distance", tc.distance)
		form.Set("weight", tc.weight)
		rec := postForm(t, srv.handleCostEstimate, "/quote/estimate-cost", form)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("distance=%q weight=%q: status = %d, want 400", tc.distance, tc.weight, rec.Code)
		}
	}
}

func TestQuoteSubmit_SetsHistoryCookie(t *testing.T) {
	srv := newTestServer(t)
	postForm(t, srv.handleAdminMachinesCreate, "/admin/machines", machineForm("Arion 420"))

	form := url.Values{}
	form.Set("machines.0.type", "CIĄGNIK")
	form.Set("machines.0.model", "Arion 420")
	form["machines.0.costs"] = []string{"przeglad_0", "skladanie", "uruchomienie"}
	form.Set("distance", "100")
	rec := postForm(t, srv.handleQuoteSubmit, "/quote", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var historyCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == history.CookieName {
			historyCookie = c
		}
	}
	if historyCookie == nil {
		t.Fatalf("history cookie not set")
	}

	entries := history.Decode(historyCookie.Value)
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Summary.TransportCost != 520 {
		t.Fatalf("transport cost = %v, want 520", entries[0].Summary.TransportCost)
	}
	if entries[0].Summary.AdditionalServicesCost != 2536 {
		t.Fatalf("services cost = %v, want 2536", entries[0].Summary.AdditionalServicesCost)
	}
}

func TestQuoteSubmit_UnknownMachineIsUnprocessable(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{}
	form.Set("machines.0.type", "CIĄGNIK")
	form.Set("machines.0.model", "Widmo 9000")
	form.Set("distance", "100")
	rec := postForm(t, srv.handleQuoteSubmit, "/quote", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed quote must not touch history, got cookies %v", rec.Result().Cookies())
	}
}

func TestHistoryClear_ExpiresCookie(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv.handleHistoryClear, "/history/clear", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == history.CookieName {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("history cookie not expired: %+v", cleared)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/history") {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}
