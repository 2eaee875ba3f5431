package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

type tarEntry struct {
	name     string
	body     string
	typeflag byte
	linkname string
}

func writeTarGz(t *testing.T, entries []tarEntry) string {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0o755,
			Size:     int64(len(e.body)),
			Typeflag: e.typeflag,
			Linkname: e.linkname,
		}
		if e.typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if e.typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	path := filepath.Join(t.TempDir(), "sdk.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractTarGz(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	src := writeTarGz(t, []tarEntry{
		{name: "1.3.250.1/", typeflag: tar.TypeDir},
		// link appears before its target
		{name: "1.3.250.1/x86_64/lib/libvulkan.so", typeflag: tar.TypeSymlink, linkname: "libvulkan.so.1"},
		{name: "1.3.250.1/x86_64/lib/libvulkan.so.1", body: "elf", typeflag: tar.TypeReg},
		{name: "1.3.250.1/x86_64/bin/vulkaninfo", body: "#!/bin/sh", typeflag: tar.TypeReg},
	})
	dest := t.TempDir()

	require.NoError(t, ExtractTarGz(context.Background(), src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "1.3.250.1", "x86_64", "bin", "vulkaninfo"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh", string(data))

	link, err := os.Readlink(filepath.Join(dest, "1.3.250.1", "x86_64", "lib", "libvulkan.so"))
	require.NoError(t, err)
	assert.Equal(t, "libvulkan.so.1", link)
}

func TestExtractTarGz_RejectsTraversal(t *testing.T) {
	src := writeTarGz(t, []tarEntry{
		{name: "../escape.txt", body: "x", typeflag: tar.TypeReg},
	})
	dest := t.TempDir()

	err := ExtractTarGz(context.Background(), src, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafePath))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "escape.txt"))
}

func TestExtractTarGz_NotGzip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("not gzip"), 0o644))

	err := ExtractTarGz(context.Background(), src, t.TempDir())
	assert.Error(t, err)
}

func TestExtractZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("x64/vulkan-1.dll")
	require.NoError(t, err)
	_, err = w.Write([]byte("dll"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	src := filepath.Join(t.TempDir(), "runtime.zip")
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0o644))
	dest := filepath.Join(t.TempDir(), "runtime")

	require.NoError(t, ExtractZip(context.Background(), src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "x64", "vulkan-1.dll"))
	require.NoError(t, err)
	assert.Equal(t, "dll", string(data))
}

func TestExtract_CancelledContext(t *testing.T) {
	src := writeTarGz(t, []tarEntry{
		{name: "a.txt", body: "a", typeflag: tar.TypeReg},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExtractTarGz(ctx, src, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTarZstRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "VulkanSDK")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "1.3.250.1", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "1.3.250.1", "bin", "vulkaninfoSDK.exe"), []byte("exe"), 0o755))
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "notes.txt"), []byte("n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, PackTarZst(context.Background(), &buf, root, other))

	restored := t.TempDir()
	require.NoError(t, UnpackTarZst(context.Background(), &buf, restored))

	data, err := os.ReadFile(filepath.Join(restored, "0", "1.3.250.1", "bin", "vulkaninfoSDK.exe"))
	require.NoError(t, err)
	assert.Equal(t, "exe", string(data))
	assert.FileExists(t, filepath.Join(restored, "1", "notes.txt"))
}

func TestExtractTarGz_StripRoot(t *testing.T) {
	src := writeTarGz(t, []tarEntry{
		{name: "1.3.250.1/", typeflag: tar.TypeDir},
		{name: "1.3.250.1/setup-env.sh", body: "#!/bin/sh", typeflag: tar.TypeReg},
		{name: "./1.3.250.1/x86_64/bin/vulkaninfo", body: "elf", typeflag: tar.TypeReg},
		{name: "1.3.250.1/x86_64/bin/vkinfo", typeflag: tar.TypeLink, linkname: "1.3.250.1/x86_64/bin/vulkaninfo"},
		{name: "1.3.250.1-notes.txt", body: "notes", typeflag: tar.TypeReg},
	})
	dest := filepath.Join(t.TempDir(), "1.3.250.1")

	require.NoError(t, ExtractTarGz(context.Background(), src, dest, StripRoot("1.3.250.1")))

	assert.FileExists(t, filepath.Join(dest, "setup-env.sh"))
	assert.FileExists(t, filepath.Join(dest, "x86_64", "bin", "vulkaninfo"))
	assert.FileExists(t, filepath.Join(dest, "1.3.250.1-notes.txt"))
	assert.NoDirExists(t, filepath.Join(dest, "1.3.250.1"))
	if runtime.GOOS != "windows" {
		data, err := os.ReadFile(filepath.Join(dest, "x86_64", "bin", "vkinfo"))
		require.NoError(t, err)
		assert.Equal(t, "elf", string(data))
	}
}

func TestStripRoot_EntryName(t *testing.T) {
	cfg := &extractConfig{}
	StripRoot("1.3.250.1")(cfg)

	tests := map[string]string{
		"1.3.250.1":             ".",
		"1.3.250.1/":            ".",
		"1.3.250.1/bin/x":       "bin/x",
		"./1.3.250.1/bin/x":     "bin/x",
		"1.3.250.10/bin/x":      "1.3.250.10/bin/x",
		"x86_64/bin/vulkaninfo": "x86_64/bin/vulkaninfo",
	}
	for in, want := range tests {
		assert.Equal(t, want, cfg.entryName(in), in)
	}
}
