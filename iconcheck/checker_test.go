package iconcheck

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/opencontainers/go-digest"

	"github.com/gabepsilva/icon-check/iconcheck/pngutil"
)

// testPNG synthesizes a minimal 1x1 truecolor+alpha file with the
// given alpha byte.
func testPNG(t *testing.T, alpha byte) []byte {
	t.Helper()

	chunk := func(chunkType string, data []byte) []byte {
		buf := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
		buf = append(buf, chunkType...)
		buf = append(buf, data...)
		crc := crc32.NewIEEE()
		crc.Write([]byte(chunkType))
		crc.Write(data)
		return binary.BigEndian.AppendUint32(buf, crc.Sum32())
	}

	ihdr := binary.BigEndian.AppendUint32(nil, 1)
	ihdr = binary.BigEndian.AppendUint32(ihdr, 1)
	ihdr = append(ihdr, 8, byte(pngutil.ColorRGBA), 0, 0, 0)

	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	if _, err := zw.Write([]byte{0, 1, 2, 3, alpha}); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	data := append([]byte(nil), pngutil.Signature...)
	data = append(data, chunk("IHDR", ihdr)...)
	data = append(data, chunk("IDAT", idat.Bytes())...)
	data = append(data, chunk("IEND", nil)...)
	return data
}

func TestCheckAsset(t *testing.T) {
	source := NewMockSource()
	transparent := testPNG(t, 100)
	source.AddAsset("icons/logo.png", transparent)
	source.AddAsset("icons/opaque.png", testPNG(t, 255))
	source.AddAsset("icons/readme.txt", []byte("not an image"))

	checker := NewChecker(source)
	ctx := context.Background()

	t.Run("transparent asset passes", func(t *testing.T) {
		result := checker.CheckAsset(ctx, "icons/logo.png")
		if result.Err != nil {
			t.Fatalf("CheckAsset() error = %v", result.Err)
		}
		if !result.Passed() {
			t.Error("Passed() = false, want true")
		}
		if result.Failure() != "" {
			t.Errorf("Failure() = %q, want empty", result.Failure())
		}
		if result.Size != int64(len(transparent)) {
			t.Errorf("Size = %d, want %d", result.Size, len(transparent))
		}
		if result.Digest != digest.FromBytes(transparent) {
			t.Errorf("Digest = %s, want %s", result.Digest, digest.FromBytes(transparent))
		}
	})

	t.Run("opaque asset fails without error", func(t *testing.T) {
		result := checker.CheckAsset(ctx, "icons/opaque.png")
		if result.Err != nil {
			t.Fatalf("CheckAsset() error = %v", result.Err)
		}
		if result.Passed() {
			t.Error("Passed() = true, want false")
		}
		want := "No transparent pixels found in icons/opaque.png"
		if result.Failure() != want {
			t.Errorf("Failure() = %q, want %q", result.Failure(), want)
		}
	})

	t.Run("non-png asset fails with code", func(t *testing.T) {
		result := checker.CheckAsset(ctx, "icons/readme.txt")
		if GetErrorCode(result.Err) != ErrNotPNG.Code {
			t.Fatalf("error code = %q, want NOT_PNG (err: %v)", GetErrorCode(result.Err), result.Err)
		}
		if !strings.Contains(result.Failure(), "Failed to validate icons/readme.txt") {
			t.Errorf("Failure() = %q, want validation failure line", result.Failure())
		}
	})

	t.Run("missing asset fails with code", func(t *testing.T) {
		result := checker.CheckAsset(ctx, "icons/ghost.png")
		if GetErrorCode(result.Err) != ErrAssetMissing.Code {
			t.Fatalf("error code = %q, want ASSET_MISSING", GetErrorCode(result.Err))
		}
		want := "Missing icon file: icons/ghost.png"
		if result.Failure() != want {
			t.Errorf("Failure() = %q, want %q", result.Failure(), want)
		}
	})
}

func TestCheckAll(t *testing.T) {
	source := NewMockSource()
	source.AddAsset("a.png", testPNG(t, 0))
	source.AddAsset("b.png", testPNG(t, 255))
	source.AddAsset("c.png", []byte("garbage"))
	paths := []string{"a.png", "b.png", "c.png", "missing.png"}

	checker := NewChecker(source)

	var calls int
	var lastDone, lastTotal int
	progress := func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}

	results, stats, err := checker.CheckAll(context.Background(), paths, 2, progress)
	if err != nil {
		t.Fatalf("CheckAll() error = %v", err)
	}

	// Results keep input order regardless of scheduling.
	for i, path := range paths {
		if results[i].Path != path {
			t.Errorf("results[%d].Path = %q, want %q", i, results[i].Path, path)
		}
	}

	if !results[0].Passed() {
		t.Error("a.png should pass")
	}
	if results[1].Passed() || results[1].Err != nil {
		t.Error("b.png should fail opaque, without error")
	}
	if GetErrorCode(results[2].Err) != ErrNotPNG.Code {
		t.Errorf("c.png error code = %q, want NOT_PNG", GetErrorCode(results[2].Err))
	}
	if GetErrorCode(results[3].Err) != ErrAssetMissing.Code {
		t.Errorf("missing.png error code = %q, want ASSET_MISSING", GetErrorCode(results[3].Err))
	}

	if stats.TotalAssets != 4 || stats.PassedAssets != 1 || stats.FailedAssets != 3 {
		t.Errorf("stats = %+v, want total 4, passed 1, failed 3", stats)
	}

	if calls != len(paths) {
		t.Errorf("progress called %d times, want %d", calls, len(paths))
	}
	if lastDone != len(paths) || lastTotal != len(paths) {
		t.Errorf("final progress = (%d, %d), want (%d, %d)", lastDone, lastTotal, len(paths), len(paths))
	}
}

// One asset's failure must never abort evaluation of the rest.
func TestCheckAll_PerAssetIsolation(t *testing.T) {
	source := NewMockSource()
	source.AddAsset("bad.png", []byte("definitely not a png"))
	source.AddAsset("good.png", testPNG(t, 10))

	checker := NewChecker(source)
	results, _, err := checker.CheckAll(context.Background(), []string{"bad.png", "good.png"}, 1, nil)
	if err != nil {
		t.Fatalf("CheckAll() error = %v", err)
	}
	if results[0].Err == nil {
		t.Error("bad.png should carry an error")
	}
	if !results[1].Passed() {
		t.Errorf("good.png should still pass, got err=%v", results[1].Err)
	}
}

func TestCheckAll_DefaultJobs(t *testing.T) {
	source := NewMockSource()
	source.AddAsset("a.png", testPNG(t, 1))

	checker := NewChecker(source)
	results, stats, err := checker.CheckAll(context.Background(), []string{"a.png"}, 0, nil)
	if err != nil {
		t.Fatalf("CheckAll() error = %v", err)
	}
	if len(results) != 1 || stats.PassedAssets != 1 {
		t.Fatalf("results = %d, stats = %+v", len(results), stats)
	}
}

func TestInspect(t *testing.T) {
	source := NewMockSource()
	data := testPNG(t, 42)
	source.AddAsset("icons/logo.png", data)

	checker := NewChecker(source)
	inspection, err := checker.Inspect(context.Background(), "icons/logo.png")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if inspection.Header.Width != 1 || inspection.Header.Height != 1 {
		t.Errorf("dimensions = %dx%d, want 1x1", inspection.Header.Width, inspection.Header.Height)
	}
	if inspection.Header.ColorType != pngutil.ColorRGBA {
		t.Errorf("color type = %v, want truecolor+alpha", inspection.Header.ColorType)
	}
	if !inspection.HasTransparency {
		t.Error("HasTransparency = false, want true")
	}
	if inspection.Digest != digest.FromBytes(data) {
		t.Errorf("Digest = %s, want %s", inspection.Digest, digest.FromBytes(data))
	}

	wantChunks := []string{"IHDR", "IDAT", "IEND"}
	if len(inspection.Chunks) != len(wantChunks) {
		t.Fatalf("got %d chunks, want %d", len(inspection.Chunks), len(wantChunks))
	}
	for i, want := range wantChunks {
		if inspection.Chunks[i].Type != want {
			t.Errorf("chunk %d = %q, want %q", i, inspection.Chunks[i].Type, want)
		}
	}
}

func TestInspect_MissingAsset(t *testing.T) {
	checker := NewChecker(NewMockSource())
	_, err := checker.Inspect(context.Background(), "nope.png")
	if GetErrorCode(err) != ErrAssetMissing.Code {
		t.Fatalf("error code = %q, want ASSET_MISSING", GetErrorCode(err))
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource()
	_, err := source.ReadAsset(context.Background(), "testdata/does-not-exist.png")
	if GetErrorCode(err) != ErrAssetMissing.Code {
		t.Fatalf("error code = %q, want ASSET_MISSING", GetErrorCode(err))
	}
}

func TestFileSource_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/icon.png"
	data := testPNG(t, 5)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	source := NewFileSource()
	got, err := source.ReadAsset(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadAsset() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("ReadAsset() returned different bytes")
	}
}
