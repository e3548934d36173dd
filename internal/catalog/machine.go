package catalog

// Costs holds the six flat surcharge fees attached to a machine. Zero means
// the service is not offered for that model.
type Costs struct {
	Przeglad0         float64 `json:"przeglad_0" validate:"gte=0"`
	Skladanie         float64 `json:"skladanie" validate:"gte=0"`
	Uruchomienie      float64 `json:"uruchomienie" validate:"gte=0"`
	PrzegladPo100Mtg  float64 `json:"przeglad_po_100_mtg" validate:"gte=0"`
	PrzegladPo500Mtg  float64 `json:"przeglad_po_500_mtg" validate:"gte=0"`
	PrzegladPo1000Mtg float64 `json:"przeglad_po_1000_mtg" validate:"gte=0"`
}

// Machine is one catalog entry for a transportable equipment model.
// Model is the unique key, compared case-insensitively.
type Machine struct {
	Type   string  `json:"type" validate:"required"`
	Model  string  `json:"model" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0"`
	Rate   float64 `json:"rate" validate:"gte=0"`
	Costs  Costs   `json:"costs"`
}

// CostIDs lists the surcharge identifiers in their stored order. The first
// three are mandatory: the quote form pre-selects them whenever a machine is
// chosen.
var CostIDs = []string{
	"przeglad_0",
	"skladanie",
	"uruchomienie",
	"przeglad_po_100_mtg",
	"przeglad_po_500_mtg",
	"przeglad_po_1000_mtg",
}

// MandatoryCostIDs are the surcharges applied by default when a machine is
// selected.
var MandatoryCostIDs = []string{"przeglad_0", "skladanie", "uruchomienie"}

var costLabels = map[string]string{
	"przeglad_0":           "Przegląd 0",
	"skladanie":            "Składanie",
	"uruchomienie":         "Uruchomienie",
	"przeglad_po_100_mtg":  "Przegląd po 100 mtg",
	"przeglad_po_500_mtg":  "Przegląd po 500 mtg",
	"przeglad_po_1000_mtg": "Przegląd po 1000 mtg",
}

// Price returns the fee stored under the given surcharge id. Unknown ids
// report false so callers can ignore stale selections.
func (c Costs) Price(id string) (float64, bool) {
	switch id {
	case "przeglad_0":
		return c.Przeglad0, true
	case "skladanie":
		return c.Skladanie, true
	case "uruchomienie":
		return c.Uruchomienie, true
	case "przeglad_po_100_mtg":
		return c.PrzegladPo100Mtg, true
	case "przeglad_po_500_mtg":
		return c.PrzegladPo500Mtg, true
	case "przeglad_po_1000_mtg":
		return c.PrzegladPo1000Mtg, true
	default:
		return 0, false
	}
}

// CostLabel returns the human-readable Polish label for a surcharge id.
func CostLabel(id string) string {
	if label, ok := costLabels[id]; ok {
		return label
	}
	return id
}

// IsMandatoryCost reports whether the surcharge id belongs to the mandatory
// set.
func IsMandatoryCost(id string) bool {
	for _, m := range MandatoryCostIDs {
		if m == id {
			return true
		}
	}
	return false
}
