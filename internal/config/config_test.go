package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Index:   IndexConfig{Addresses: []string{"http://localhost:9200"}},
		Catalog: CatalogConfig{DSN: "catalog.db"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingIndexAddresses(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Addresses = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing index addresses")
	}
	if err.Error() != "index.addresses is required" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_CatalogDriver(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Catalog.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for %q: %v", driver, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Catalog.Driver = "mysql"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	expected := `catalog.driver must be "postgres" or "sqlite", got "mysql"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MissingCatalogDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing dsn")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PageSizes(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPageSize = 50
	cfg.Search.MaxPageSize = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("http timeouts = %+v", cfg.HTTP)
	}
	if cfg.Index.CourseIndex != "classes" || cfg.Index.EmployeeIndex != "employees" {
		t.Errorf("index names = %q/%q", cfg.Index.CourseIndex, cfg.Index.EmployeeIndex)
	}
	if cfg.Index.TimeoutMs != 5000 {
		t.Errorf("expected TimeoutMs=5000, got %d", cfg.Index.TimeoutMs)
	}
	if cfg.Catalog.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %q", cfg.Catalog.Driver)
	}
	if cfg.Cache.TTLSec != 300 || cfg.Cache.ReadinessTimeout != 10 || cfg.Cache.TimeoutMs != 200 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Search.DefaultPageSize != 10 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Index:   IndexConfig{CourseIndex: "courses_v2", TimeoutMs: 250},
		Catalog: CatalogConfig{Driver: "postgres"},
		Search:  SearchConfig{DefaultPageSize: 25, MaxPageSize: 50},
	}
	cfg.ApplyDefaults()

	if cfg.Index.CourseIndex != "courses_v2" || cfg.Index.TimeoutMs != 250 {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Catalog.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Catalog.Driver)
	}
	if cfg.Search.DefaultPageSize != 25 || cfg.Search.MaxPageSize != 50 {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("COURSEDEX_TEST_ES", "http://es:9200")

	got := string(expandEnvVars([]byte(
		"a: ${COURSEDEX_TEST_ES}\nb: ${COURSEDEX_TEST_MISSING:-fallback}\nc: ${COURSEDEX_TEST_MISSING}",
	)))
	want := "a: http://es:9200\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := `http:
  port: ${COURSEDEX_TEST_PORT:-9090}
index:
  addresses: ["http://localhost:9200"]
catalog:
  driver: sqlite
  dsn: /tmp/catalog.db
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Index.CourseIndex != "classes" {
		t.Errorf("defaults not applied: %+v", cfg.Index)
	}
}
