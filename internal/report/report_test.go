package report

import (
	"testing"
	"time"

	"github.com/agrokalk/agrokalkulator/internal/catalog"
	"github.com/agrokalk/agrokalkulator/internal/pricing"
)

func TestFormatPLN_PolishGroupingAndDecimalComma(t *testing.T) {
	// CLDR uses a no-break space as the Polish group separator.
	cases := []struct {
		value float64
		want  string
	}{
		{0, "0,00 zł"},
		{520, "520,00 zł"},
		{2536, "2 536,00 zł"},
		{1234567.89, "1 234 567,89 zł"},
	}
	for _, tc := range cases {
		if got := FormatPLN(tc.value); got != tc.want {
			t.Fatalf("FormatPLN(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestBuild_ResolvesMachineWeightsFromSnapshot(t *testing.T) {
	snapshot := []catalog.Machine{
		{Type: "CIĄGNIK", Model: "Arion 420", Weight: 5000, Rate: 5.20},
	}
	req := pricing.QuoteRequest{
		Machines: []pricing.MachineSelection{
			{Type: "CIĄGNIK", Model: "Arion 420"},
			{Type: "KOMBAJN", Model: "Wycofany Model"},
		},
		Distance:        100,
		StartPostalCode: "00-001",
		EndPostalCode:   "30-079",
	}
	summary := pricing.Summary{TransportCost: 520, TotalCost: 520}

	data := Build(req, snapshot, summary, time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC))

	if data.GeneratedAt != "07.03.2025" {
		t.Fatalf("GeneratedAt = %q", data.GeneratedAt)
	}
	if len(data.Machines) != 2 {
		t.Fatalf("expected 2 machine details, got %d", len(data.Machines))
	}
	if data.Machines[0].Name != "CIĄGNIK Arion 420" || data.Machines[0].Weight != 5000 {
		t.Fatalf("unexpected first machine: %+v", data.Machines[0])
	}
	// A machine gone from the catalog still appears, just without a weight.
	if data.Machines[1].Weight != 0 {
		t.Fatalf("unexpected weight for unresolved machine: %+v", data.Machines[1])
	}
	if data.Summary.TotalCost != 520 {
		t.Fatalf("summary not carried through: %+v", data.Summary)
	}
}
