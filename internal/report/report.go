// Package report builds the printable quote summary. Pure presentation:
// every figure comes in precomputed, this only arranges and formats.
package report

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agrokalk/agrokalkulator/internal/catalog"
	"github.com/agrokalk/agrokalkulator/internal/pricing"
)

// MachineDetail is one transported machine as shown on the report.
type MachineDetail struct {
	Name   string
	Weight float64
}

// Data is the view-model for the report template.
type Data struct {
	GeneratedAt     string
	Distance        float64
	StartPostalCode string
	EndPostalCode   string
	Machines        []MachineDetail
	Summary         pricing.Summary
}

var plPrinter = message.NewPrinter(language.Polish)

// FormatPLN renders an amount with Polish digit grouping, e.g. "2 536,00 zł".
func FormatPLN(value float64) string {
	return plPrinter.Sprintf("%.2f zł", value)
}

// FormatNumber renders a plain number with Polish digit grouping.
func FormatNumber(value float64) string {
	return plPrinter.Sprintf("%v", value)
}

// Build assembles the report view-model from the quote inputs, the catalog
// snapshot the quote was computed against, and the computed summary.
func Build(req pricing.QuoteRequest, snapshot []catalog.Machine, summary pricing.Summary, now time.Time) Data {
	byModel := make(map[string]catalog.Machine, len(snapshot))
	for _, m := range snapshot {
		byModel[m.Model] = m
	}

	machines := make([]MachineDetail, 0, len(req.Machines))
	for _, sel := range req.Machines {
		detail := MachineDetail{Name: sel.Type + " " + sel.Model}
		if m, ok := byModel[sel.Model]; ok {
			detail.Weight = m.Weight
		}
		machines = append(machines, detail)
	}

	return Data{
		GeneratedAt:     now.Format("02.01.2006"),
		Distance:        req.Distance,
		StartPostalCode: req.StartPostalCode,
		EndPostalCode:   req.EndPostalCode,
		Machines:        machines,
		Summary:         summary,
	}
}
