package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileScoped_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b, err := ReadFileScoped(p)
	if err != nil {
		t.Fatalf("ReadFileScoped error: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestReadFileScoped_RejectsInvalidPath(t *testing.T) {
	for _, p := range []string{"", ".", string(filepath.Separator)} {
		if _, err := ReadFileScoped(p); err == nil {
			t.Fatalf("expected error for %q", p)
		}
	}
}

func TestReadFileScoped_NonexistentFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "does-not-exist.go")

	if _, err := ReadFileScoped(p); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestReadFileScoped_UnnormalizedPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "file.go")
	if err := os.WriteFile(p, []byte("norm"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFileScoped(filepath.Join(dir, ".", "file.go"))
	if err != nil {
		t.Fatalf("ReadFileScoped: %v", err)
	}
	if string(data) != "norm" {
		t.Errorf("expected %q, got %q", "norm", string(data))
	}
}

func TestReadFileScoped_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "huge.go")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	// Sparse file: only the size matters for the rejection.
	if err := f.Truncate(maxSourceSize + 1); err != nil {
		f.Close()
		t.Skipf("truncate not supported: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFileScoped(p); err == nil {
		t.Error("expected error for file above the size cap")
	}
}

func TestLine(t *testing.T) {
	data := []byte("first\nsecond\r\nthird")
	tests := []struct {
		name   string
		data   []byte
		n      int
		want   string
		wantOK bool
	}{
		{"first line", data, 1, "first", true},
		{"crlf line loses its cr", data, 2, "second", true},
		{"last line without newline", data, 3, "third", true},
		{"past the end", data, 4, "", false},
		{"zero is not a line number", data, 0, "", false},
		{"negative line number", data, -3, "", false},
		{"empty input has one empty line", []byte(""), 1, "", true},
		{"line after trailing newline", []byte("a\n"), 2, "", true},
		{"nothing after the empty tail", []byte("a\n"), 3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Line(tt.data, tt.n)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Line(%q, %d) = (%q, %v), want (%q, %v)",
					tt.data, tt.n, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
