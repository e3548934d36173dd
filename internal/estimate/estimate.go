// Package estimate wraps the non-deterministic LLM helpers: a driving
// distance guess between two postal codes and a rough transport cost
// estimate. Neither participates in the deterministic pricing contract;
// results only pre-fill form fields.
package estimate

import "context"

// DistanceInput names the two Polish postal codes of the route.
type DistanceInput struct {
	StartPostalCode string `json:"startPostalCode"`
	EndPostalCode   string `json:"endPostalCode"`
}

// DistanceOutput is the estimated one-way driving distance in kilometers.
type DistanceOutput struct {
	Distance float64 `json:"distance"`
}

// CostInput describes a shipment for the free-form cost estimate.
type CostInput struct {
	Distance         float64 `json:"distance"`
	MachineWeight    float64 `json:"machineWeight"`
	Dimensions       string  `json:"dimensions"`
	Destination      string  `json:"destination"`
	MarketConditions string  `json:"marketConditions,omitempty"`
}

// CostOutput is the model's cost guess with a textual breakdown.
type CostOutput struct {
	EstimatedCost float64 `json:"estimatedCost"`
	CostBreakdown string  `json:"costBreakdown"`
	Currency      string  `json:"currency"`
}

// Estimator is the injected estimation capability. Implementations are
// expected to be slow, fallible and non-reproducible; callers must never
// depend on exact values.
type Estimator interface {
	EstimateDistance(ctx context.Context, input DistanceInput) (DistanceOutput, error)
	EstimateTransportCost(ctx context.Context, input CostInput) (CostOutput, error)
}
