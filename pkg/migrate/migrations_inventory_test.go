package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "migrations"

func TestMigrationsDirValidates(t *testing.T) {
	if err := ValidateDir(migrationsDir); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestMigrationsCreateExpectedTables(t *testing.T) {
	wantTables := []string{
		"users",
		"gyms",
		"gym_memberships",
		"gym_settings",
		"membership_types",
		"members",
		"membership_alerts",
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var all strings.Builder
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(migrationsDir, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		all.Write(b)
	}

	sql := all.String()
	for _, table := range wantTables {
		if !strings.Contains(sql, "CREATE TABLE "+table) {
			t.Errorf("no migration creates table %q", table)
		}
		if !strings.Contains(sql, "DROP TABLE IF EXISTS "+table) {
			t.Errorf("no migration drops table %q", table)
		}
	}

	// Per-gym name uniqueness backs the duplicate-name conflict mapping in
	// the membership type service.
	if !strings.Contains(sql, "CREATE UNIQUE INDEX idx_membership_types_gym_name ON membership_types (gym_id, lower(name))") {
		t.Error("no migration enforces per-gym membership type name uniqueness")
	}
}
