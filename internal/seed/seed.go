// Package seed populates empty catalogs on first run so a dev instance has
// something to quote against.
package seed

import (
	"fmt"

	"github.com/agrokalk/agrokalkulator/internal/access"
	"github.com/agrokalk/agrokalkulator/internal/catalog"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Machines int
	Users    int
}

// Run executes the startup seed in an idempotent way: machines are seeded
// only into an empty machine catalog, the admin user only into an empty user
// catalog.
func Run(machines *catalog.MachineStore, users *catalog.UserStore, cfg Config) (Stats, error) {
	stats := Stats{}

	if len(machines.List()) == 0 {
		for _, m := range defaultMachines {
			if err := machines.Add(m); err != nil {
				return stats, fmt.Errorf("seed machine %s: %w", m.Model, err)
			}
			stats.Machines++
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" && len(users.List()) == 0 {
		user := catalog.User{
			Login: cfg.AdminEmail,
			Hash:  access.HashPassword(cfg.AdminPassword),
		}
		if err := users.Add(user); err != nil {
			return stats, fmt.Errorf("seed admin user: %w", err)
		}
		stats.Users++
	}

	return stats, nil
}

var defaultMachines = []catalog.Machine{
	{
		Type:   "CIĄGNIK",
		Model:  "Arion 420",
		Weight: 5000,
		Rate:   5.20,
		Costs:  catalog.Costs{Przeglad0: 1280, Skladanie: 1000, Uruchomienie: 256},
	},
	{
		Type:   "CIĄGNIK",
		Model:  "Axion 960",
		Weight: 10500,
		Rate:   6.80,
		Costs:  catalog.Costs{Przeglad0: 1600, Skladanie: 1200, Uruchomienie: 256},
	},
	{
		Type:   "KOMBAJN",
		Model:  "Lexion 8700",
		Weight: 17500,
		Rate:   9.50,
		Costs: catalog.Costs{
			Przeglad0:         2200,
			Skladanie:         1800,
			Uruchomienie:      512,
			PrzegladPo100Mtg:  800,
			PrzegladPo500Mtg:  1200,
			PrzegladPo1000Mtg: 1600,
		},
	},
	{
		Type:   "SIECZKARNIA",
		Model:  "Jaguar 990",
		Weight: 16000,
		Rate:   9.10,
		Costs: catalog.Costs{
			Przeglad0:        2000,
			Skladanie:        1600,
			Uruchomienie:     512,
			PrzegladPo500Mtg: 900,
		},
	},
	{
		Type:   "PRASA",
		Model:  "Rollant 620",
		Weight: 3200,
		Rate:   4.30,
		Costs:  catalog.Costs{Przeglad0: 900, Skladanie: 700, Uruchomienie: 128},
	},
}
