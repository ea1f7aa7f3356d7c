package migrations

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRequiresURL(t *testing.T) {
	if err := Run("", "migrations"); err == nil {
		t.Error("Run with empty URL returned nil error")
	}
}

func TestRepositoryMigrationsArePaired(t *testing.T) {
	dir := filepath.Join("..", "..", "migrations")
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) == 0 {
		t.Fatal("no up migrations found in repository migrations dir")
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := os.Stat(down); err != nil {
			t.Errorf("%s has no down migration", filepath.Base(up))
		}
	}
}
