package models

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

var downloadClient = &http.Client{
	// Models are hundreds of megabytes; this bounds a stalled transfer,
	// not a slow one.
	Timeout: 30 * time.Minute,
}

// Download fetches every missing model file into dir. Files that already
// exist are left alone, so the command is safe to re-run after a failure.
func Download(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models directory: %w", err)
	}

	for _, m := range All() {
		path := filepath.Join(dir, m.Name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			fmt.Printf("%s already present, skipping\n", m.Name)
			continue
		}

		if err := downloadOne(ctx, m, path); err != nil {
			return fmt.Errorf("download %s: %w", m.Name, err)
		}
	}
	return nil
}

// downloadOne streams the bzip2-compressed model, showing progress over the
// compressed bytes, and renames the finished file into place so an aborted
// download never looks like a usable model.
func downloadOne(ctx context.Context, m Model, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return err
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, m.URL)
	}

	bar := progressbar.NewOptions(int(resp.ContentLength),
		progressbar.OptionSetDescription(m.Name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	partial := path + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return err
	}

	decompressed := bzip2.NewReader(io.TeeReader(resp.Body, bar))
	if _, err := io.Copy(out, decompressed); err != nil {
		out.Close()
		os.Remove(partial)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return err
	}

	fmt.Println()
	return os.Rename(partial, path)
}
