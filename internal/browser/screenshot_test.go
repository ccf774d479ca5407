package browser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestScreenshotQualityKeepsPNG(t *testing.T) {
	// Anything below 100 makes chromedp emit JPEG bytes, which would then be
	// written behind a .png name and metadata.
	if screenshotQuality != 100 {
		t.Fatalf("Quality %d would switch capture output to JPEG", screenshotQuality)
	}
}

func TestIsPNG(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, 0x00, 0x00)
	if !isPNG(png) {
		t.Error("PNG header not recognized")
	}

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}
	if isPNG(jpeg) {
		t.Error("JPEG bytes accepted as PNG")
	}
	if isPNG(nil) {
		t.Error("Empty buffer accepted as PNG")
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")

	if err := writeAtomic(path, []byte("png-bytes")); err != nil {
		t.Fatalf("writeAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Unexpected content: %q", data)
	}

	// No temp files may survive a successful write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
}

func TestWriteAtomic_NoPartialFileOnFailure(t *testing.T) {
	// Target directory does not exist, so the write must fail without
	// leaving anything behind at the destination path.
	path := filepath.Join(t.TempDir(), "missing", "shot.png")

	if err := writeAtomic(path, []byte("data")); err == nil {
		t.Fatal("Expected error when destination directory is missing")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file at destination, stat err = %v", err)
	}
}

func TestWriteMeta(t *testing.T) {
	dir := t.TempDir()
	shot := filepath.Join(dir, "screenshot_20260831_120000_p01.png")

	meta := ScreenshotMeta{
		CapturedAt: time.Now(),
		URL:        "http://quotes.toscrape.com/page/1/",
		Page:       1,
		File:       filepath.Base(shot),
		Resolution: "1920x1080",
	}
	if err := writeMeta(shot, meta); err != nil {
		t.Fatalf("writeMeta failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "screenshot_20260831_120000_p01.json"))
	if err != nil {
		t.Fatalf("metadata sidecar missing: %v", err)
	}
	if !strings.Contains(string(data), "quotes.toscrape.com") {
		t.Errorf("Metadata missing URL: %s", data)
	}
}
