package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/autocal/autocal/pkg/ambient"
)

func withStores(t *testing.T, stores []string) {
	t.Helper()
	orig := profileStores
	profileStores = func() []string { return stores }
	t.Cleanup(func() { profileStores = orig })
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("icc"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLocateExtraDirWins(t *testing.T) {
	extra := t.TempDir()
	user := t.TempDir()
	withStores(t, []string{user})

	writeFile(t, filepath.Join(extra, "LowLight_Profile.icc"))
	writeFile(t, filepath.Join(user, "LowLight_Profile.icc"))

	p, ok := Locate("LowLight_Profile.icc", extra)
	if !ok {
		t.Fatal("expected profile to be found")
	}
	if want := filepath.Join(extra, "LowLight_Profile.icc"); p != want {
		t.Fatalf("expected %s, got %s", want, p)
	}
}

func TestLocateFallsThroughToStores(t *testing.T) {
	extra := t.TempDir()
	user := t.TempDir()
	system := t.TempDir()
	withStores(t, []string{user, system})

	writeFile(t, filepath.Join(system, "HighLight_Profile.icc"))

	p, ok := Locate("HighLight_Profile.icc", extra)
	if !ok {
		t.Fatal("expected profile to be found in system store")
	}
	if want := filepath.Join(system, "HighLight_Profile.icc"); p != want {
		t.Fatalf("expected %s, got %s", want, p)
	}
}

func TestLocateUserStoreBeforeSystem(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()
	withStores(t, []string{user, system})

	writeFile(t, filepath.Join(user, "p.icc"))
	writeFile(t, filepath.Join(system, "p.icc"))

	p, _ := Locate("p.icc", t.TempDir())
	if want := filepath.Join(user, "p.icc"); p != want {
		t.Fatalf("expected user store hit %s, got %s", want, p)
	}
}

func TestLocateMissingEverywhere(t *testing.T) {
	withStores(t, []string{t.TempDir(), t.TempDir()})

	if p, ok := Locate("Nope.icc", t.TempDir()); ok {
		t.Fatalf("expected no result, got %s", p)
	}
}

func TestLocateIgnoresDirectories(t *testing.T) {
	extra := t.TempDir()
	user := t.TempDir()
	withStores(t, []string{user})

	// A directory with the profile's name must not satisfy the lookup.
	if err := os.MkdirAll(filepath.Join(extra, "p.icc"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(user, "p.icc"))

	p, ok := Locate("p.icc", extra)
	if !ok {
		t.Fatal("expected regular file in user store to be found")
	}
	if want := filepath.Join(user, "p.icc"); p != want {
		t.Fatalf("expected %s, got %s", want, p)
	}
}

func TestFilenameForCondition(t *testing.T) {
	cases := map[ambient.Condition]string{
		ambient.ConditionLow:    "LowLight_Profile.icc",
		ambient.ConditionMedium: "MediumLight_Profile.icc",
		ambient.ConditionHigh:   "HighLight_Profile.icc",
	}
	for cond, want := range cases {
		if got := FilenameForCondition(cond); got != want {
			t.Errorf("FilenameForCondition(%s) = %s, want %s", cond, got, want)
		}
	}
}
