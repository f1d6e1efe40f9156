package seeds

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad parses a seed file with districts and an admin block.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	raw := []byte(`districts:
  - code: KEC001
    name: Cisarua
  - code: KEC002
    name: Megamendung

admin:
  name: Dinas Admin
  email: admin@example.com
  password: change-me-now
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	sf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sf.Districts) != 2 {
		t.Fatalf("expected 2 districts, got %d", len(sf.Districts))
	}
	if sf.Districts[0].Code != "KEC001" || sf.Districts[0].Name != "Cisarua" {
		t.Errorf("first district mangled: %+v", sf.Districts[0])
	}
	if sf.Admin == nil {
		t.Fatal("admin block not parsed")
	}
	if sf.Admin.Email != "admin@example.com" {
		t.Errorf("admin email mangled: %q", sf.Admin.Email)
	}
}

// TestLoadWithoutAdmin leaves the admin pointer nil.
func TestLoadWithoutAdmin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	raw := []byte(`districts:
  - code: KEC003
    name: Ciawi
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	sf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sf.Admin != nil {
		t.Errorf("expected nil admin, got %+v", sf.Admin)
	}
}

// TestLoadMissingFile surfaces the filesystem error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
