package pricing

import (
	"fmt"

	"github.com/agrokalk/agrokalkulator/internal/catalog"
)

// MachineSelection is one machine chosen on the quote form together with the
// surcharge ids ticked for it.
type MachineSelection struct {
	Type            string   `json:"machineType"`
	Model           string   `json:"machineModel"`
	AdditionalCosts []string `json:"additionalCosts,omitempty"`
}

// QuoteRequest carries everything submitted for a single quote.
type QuoteRequest struct {
	Machines             []MachineSelection `json:"machines"`
	Distance             float64            `json:"distance"`
	StartPostalCode      string             `json:"startPostalCode,omitempty"`
	EndPostalCode        string             `json:"endPostalCode,omitempty"`
	ManualAdditionalCost float64            `json:"manualAdditionalCost"`
}

// Summary is the computed cost breakdown. TotalCost is always the exact sum
// of the other three fields.
type Summary struct {
	TransportCost          float64 `json:"transportCost"`
	AdditionalServicesCost float64 `json:"additionalServicesCost"`
	ManualAdditionalCost   float64 `json:"manualAdditionalCost"`
	TotalCost              float64 `json:"totalCost"`
}

// UnknownMachineError reports a selected model that is absent from the
// catalog snapshot. The whole computation is aborted.
type UnknownMachineError struct {
	Model string
}

func (e *UnknownMachineError) Error() string {
	return fmt.Sprintf("nie znaleziono maszyny: %s", e.Model)
}

// Compute prices a quote against a catalog snapshot.
//
// Transport is charged once, for the whole round-trip distance, at the
// highest per-km rate among the selected machines: one vehicle dimensioned
// for the most expensive unit carries the shipment. Surcharges are summed
// per machine, but only the ids actually present in each selection set;
// ids the machine does not carry contribute nothing. The manual cost passes
// through unchanged.
func Compute(req QuoteRequest, snapshot []catalog.Machine) (Summary, error) {
	byModel := make(map[string]catalog.Machine, len(snapshot))
	for _, m := range snapshot {
		byModel[m.Model] = m
	}

	resolved := make([]catalog.Machine, len(req.Machines))
	for i, sel := range req.Machines {
		m, ok := byModel[sel.Model]
		if !ok {
			return Summary{}, &UnknownMachineError{Model: sel.Model}
		}
		resolved[i] = m
	}

	highestRate := 0.0
	for _, m := range resolved {
		if m.Rate > highestRate {
			highestRate = m.Rate
		}
	}
	transportCost := req.Distance * highestRate

	servicesCost := 0.0
	for i, sel := range req.Machines {
		for _, id := range sel.AdditionalCosts {
			if price, ok := resolved[i].Costs.Price(id); ok {
				servicesCost += price
			}
		}
	}

	return Summary{
		TransportCost:          transportCost,
		AdditionalServicesCost: servicesCost,
		ManualAdditionalCost:   req.ManualAdditionalCost,
		TotalCost:              transportCost + servicesCost + req.ManualAdditionalCost,
	}, nil
}
