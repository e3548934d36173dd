package seed

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/agrokalk/agrokalkulator/internal/access"
	"github.com/agrokalk/agrokalkulator/internal/catalog"
)

func newTestStores(t *testing.T) (*catalog.MachineStore, *catalog.UserStore) {
	t.Helper()
	dir := t.TempDir()
	return catalog.NewMachineStore(filepath.Join(dir, "machines.json"), zap.NewNop()),
		catalog.NewUserStore(filepath.Join(dir, "users.json"), zap.NewNop())
}

func TestRun_SeedsEmptyCatalogs(t *testing.T) {
	machines, users := newTestStores(t)

	stats, err := Run(machines, users, Config{AdminEmail: "admin@example.com", AdminPassword: "sekret"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Machines == 0 || stats.Users != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if len(machines.List()) != stats.Machines {
		t.Fatalf("machine count mismatch")
	}
	if _, ok := machines.FindByModel("Arion 420"); !ok {
		t.Fatalf("Arion 420 missing from seeded catalog")
	}

	user, ok := users.FindByLogin("admin@example.com")
	if !ok {
		t.Fatalf("admin user missing")
	}
	if user.Hash != access.HashPassword("sekret") {
		t.Fatalf("admin password not stored as hash")
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	machines, users := newTestStores(t)
	cfg := Config{AdminEmail: "admin@example.com", AdminPassword: "sekret"}

	if _, err := Run(machines, users, cfg); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before := len(machines.List())

	stats, err := Run(machines, users, cfg)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats.Machines != 0 || stats.Users != 0 {
		t.Fatalf("second run should seed nothing, got %+v", stats)
	}
	if len(machines.List()) != before {
		t.Fatalf("machine catalog changed on second run")
	}
}

func TestRun_SkipsAdminUserWithoutCredentials(t *testing.T) {
	machines, users := newTestStores(t)

	stats, err := Run(machines, users, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Users != 0 {
		t.Fatalf("expected no seeded users, got %d", stats.Users)
	}
	if len(users.List()) != 0 {
		t.Fatalf("user catalog should stay empty")
	}
}
