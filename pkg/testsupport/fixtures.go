package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ReadFixture returns the raw bytes of a fixture file.
func ReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// WriteFile writes content to dir/name and returns the path. Tests use it to
// stage HTML pages, rule packs and config files in a temp dir.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set and
// reports whether it did.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteFile(t, filepath.Dir(path), filepath.Base(path), string(payload)+"\n")
	return true
}

// AssertGolden compares got with the JSON golden at path. Run with
// UPDATE_GOLDENS=1 to refresh the file instead.
func AssertGolden[T any](t *testing.T, path string, got T) {
	t.Helper()
	if WriteGolden(t, path, got) {
		return
	}
	var want T
	if err := json.Unmarshal(ReadFixture(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}
