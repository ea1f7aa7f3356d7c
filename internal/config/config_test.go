package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MAX_TABLES", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MaxTables != 100 {
		t.Errorf("MaxTables = %d, want 100", cfg.MaxTables)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MAX_TABLES", "3")
	t.Setenv("TABLE_IDLE_MINUTES", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MaxTables != 3 {
		t.Errorf("MaxTables = %d, want 3", cfg.MaxTables)
	}
	if cfg.TableIdleMinutes != 15 {
		t.Errorf("TableIdleMinutes = %d, want default 15 for bad input", cfg.TableIdleMinutes)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart = false, want true")
	}
}
