package history

import (
	"fmt"
	"testing"

	"github.com/agrokalk/agrokalkulator/internal/pricing"
)

func sampleEntry(model string, total float64) Entry {
	return NewEntry(
		pricing.QuoteRequest{
			Machines: []pricing.MachineSelection{{Type: "CIĄGNIK", Model: model}},
			Distance: 100,
		},
		pricing.Summary{TransportCost: total, TotalCost: total},
	)
}

func TestPush_NewestFirst(t *testing.T) {
	var entries []Entry
	entries = Push(entries, sampleEntry("Arion 420", 520))
	entries = Push(entries, sampleEntry("Lexion 8700", 950))

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Request.Machines[0].Model != "Lexion 8700" {
		t.Fatalf("newest entry is not first: %+v", entries)
	}
}

func TestPush_CapsAtMaxEntries(t *testing.T) {
	var entries []Entry
	for i := 0; i < MaxEntries+3; i++ {
		entries = Push(entries, sampleEntry(fmt.Sprintf("Model %d", i), float64(i)))
	}

	if len(entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(entries))
	}
	if entries[0].Request.Machines[0].Model != fmt.Sprintf("Model %d", MaxEntries+2) {
		t.Fatalf("newest entry lost: %+v", entries[0])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	entries := Push(nil, sampleEntry("Arion 420", 3056))

	encoded, err := Encode(entries)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded := Decode(encoded)
	if len(decoded) != 1 {
		t.Fatalf("expected 1 entry after round trip, got %d", len(decoded))
	}
	if decoded[0].ID != entries[0].ID {
		t.Fatalf("id changed in round trip")
	}
	if decoded[0].Summary.TotalCost != 3056 {
		t.Fatalf("summary changed in round trip: %+v", decoded[0].Summary)
	}
}

func TestDecode_GarbageDegradesToEmpty(t *testing.T) {
	if entries := Decode("nie-base64!!"); entries != nil {
		t.Fatalf("expected nil for invalid base64, got %+v", entries)
	}
	if entries := Decode(""); entries != nil {
		t.Fatalf("expected nil for empty value, got %+v", entries)
	}
}

func TestEncode_DropsOldestWhenOversized(t *testing.T) {
	var entries []Entry
	for i := 0; i < MaxEntries; i++ {
		e := sampleEntry(fmt.Sprintf("Model %d", i), float64(i))
		// Inflate each entry so the full ring cannot fit in one cookie.
		for j := 0; j < 15; j++ {
			e.Request.Machines = append(e.Request.Machines, pricing.MachineSelection{
				Type:            "KOMBAJN",
				Model:           fmt.Sprintf("Lexion 8700 wariant %d-%d", i, j),
				AdditionalCosts: []string{"przeglad_0", "skladanie", "uruchomienie"},
			})
		}
		entries = Push(entries, e)
	}

	encoded, err := Encode(entries)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) > 3800 {
		t.Fatalf("encoded history exceeds cookie size limit: %d bytes", len(encoded))
	}

	decoded := Decode(encoded)
	if len(decoded) == 0 || len(decoded) >= MaxEntries {
		t.Fatalf("expected a trimmed, non-empty history, got %d entries", len(decoded))
	}
	if decoded[0].ID != entries[0].ID {
		t.Fatalf("trimming dropped the newest entry")
	}
}
