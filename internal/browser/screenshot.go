package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// chromedp keeps CaptureScreenshot in PNG form only at quality 100; any
// lower value switches the emitted bytes to JPEG.
const screenshotQuality = 100

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngHeader)
}

// ScreenshotMeta is written next to each capture as a .json sidecar.
type ScreenshotMeta struct {
	CapturedAt time.Time `json:"captured_at"`
	URL        string    `json:"url"`
	Page       int       `json:"page"`
	File       string    `json:"file"`
	Resolution string    `json:"resolution"`
}

// Screenshot navigates to url, waits for waitFor to become visible, and
// captures a full-page PNG into dir. The file is written via a temp file and
// rename, so it is either fully present or absent. Returns the final path.
func (s *Session) Screenshot(ctx context.Context, url, waitFor, dir string, page int) (string, error) {
	runCtx, cancel := mergeContext(s.ctx, ctx)
	defer cancel()

	if waitFor == "" {
		waitFor = "body"
	}

	var buf []byte
	err := chromedp.Run(runCtx,
		s.prepare(),
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitFor, chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, screenshotQuality),
	)
	if err != nil {
		return "", fmt.Errorf("capture screenshot of %s: %w", url, err)
	}
	if !isPNG(buf) {
		return "", fmt.Errorf("capture of %s did not produce PNG data", url)
	}

	now := time.Now()
	name := fmt.Sprintf("screenshot_%s_p%02d.png", now.Format("20060102_150405"), page)
	path := filepath.Join(dir, name)

	if err := writeAtomic(path, buf); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	meta := ScreenshotMeta{
		CapturedAt: now,
		URL:        url,
		Page:       page,
		File:       name,
		Resolution: fmt.Sprintf("%dx%d", s.width, s.height),
	}
	if err := writeMeta(path, meta); err != nil {
		// The capture itself succeeded; a failed sidecar is not fatal.
		log.Warn().Err(err).Str("path", path).Msg("Failed to write screenshot metadata")
	}

	log.Info().Str("path", path).Str("url", url).Msg("Screenshot saved")
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".screenshot-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func writeMeta(screenshotPath string, meta ScreenshotMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	metaPath := screenshotPath[:len(screenshotPath)-len(filepath.Ext(screenshotPath))] + ".json"
	return os.WriteFile(metaPath, data, 0o644)
}
