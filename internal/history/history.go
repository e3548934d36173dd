package history

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agrokalk/agrokalkulator/internal/pricing"
)

// MaxEntries caps the per-client quote history.
const MaxEntries = 5

// CookieName is the client-side cookie carrying the encoded history.
const CookieName = "calc_history"

// Browsers reject cookies around 4KB; stay under that after base64 expansion.
const maxEncodedBytes = 3800

// Entry records one computed quote together with the inputs that produced it.
type Entry struct {
	ID      string               `json:"id"`
	Date    time.Time            `json:"date"`
	Request pricing.QuoteRequest `json:"data"`
	Summary pricing.Summary      `json:"summary"`
}

// NewEntry stamps a quote with a fresh id and the current time.
func NewEntry(req pricing.QuoteRequest, summary pricing.Summary) Entry {
	return Entry{
		ID:      uuid.NewString(),
		Date:    time.Now().UTC(),
		Request: req,
		Summary: summary,
	}
}

// Push prepends the entry and trims the history to MaxEntries, newest first.
func Push(entries []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Encode serializes the history for cookie transport. When the encoding
// would exceed the cookie size limit, oldest entries are dropped until it
// fits.
func Encode(entries []Entry) (string, error) {
	for {
		data, err := json.Marshal(entries)
		if err != nil {
			return "", err
		}
		encoded := base64.RawURLEncoding.EncodeToString(data)
		if len(encoded) <= maxEncodedBytes || len(entries) == 0 {
			return encoded, nil
		}
		entries = entries[:len(entries)-1]
	}
}

// Decode parses a cookie value back into history entries. Anything
// unreadable degrades to an empty history; stale client state must never
// break a request.
func Decode(value string) []Entry {
	if value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}
