package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{name: "manifest", data: []byte("key: cache-vulkan-sdk-1.3.250.1-linux-x64\n"), perm: 0o644},
		{name: "empty data", data: []byte{}, perm: 0o644},
		{name: "private", data: []byte{0x00, 0xFF}, perm: 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stating file: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_NoTempFileLeftOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "file.txt")

	if err := AtomicWriteFile(path, []byte("data"), 0o600); err == nil {
		t.Fatal("AtomicWriteFile() expected error for missing parent directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

type manifest struct {
	ID      int64     `yaml:"id"`
	Key     string    `yaml:"key"`
	Paths   []string  `yaml:"paths"`
	Created time.Time `yaml:"created"`
}

func TestAtomicWriteYAML_ReadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.yaml")
	want := manifest{
		ID:      7,
		Key:     "cache-vulkan-sdk-1.3.250.1-linux-x64",
		Paths:   []string{"/home/runner/vulkan-sdk"},
		Created: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := AtomicWriteYAML(path, want); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	var got manifest
	if err := ReadYAML(path, &got); err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	if got.Key != want.Key || got.ID != want.ID || !got.Created.Equal(want.Created) {
		t.Errorf("ReadYAML() = %+v, want %+v", got, want)
	}
	if len(got.Paths) != 1 || got.Paths[0] != want.Paths[0] {
		t.Errorf("Paths = %v, want %v", got.Paths, want.Paths)
	}
}

func TestAtomicWriteYAML_Unmarshalable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := AtomicWriteYAML(path, make(chan int)); err == nil {
		t.Error("AtomicWriteYAML() expected error for channel value")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist after failed write, stat err = %v", err)
	}
}

func TestReadYAML_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("key: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	var m manifest
	if err := ReadYAML(path, &m); err == nil {
		t.Error("ReadYAML() expected decode error")
	}
}
