package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Callbacks carries the outbound reporting hooks for one provisioning run.
// Both are optional and invoked synchronously from the calling goroutine.
type Callbacks struct {
	// OnProgress receives the percentage of cumulative bytes downloaded
	// across all files still to fetch, monotonically non-decreasing and
	// capped at 100.
	OnProgress func(int)
	// OnStatus receives short user-facing status messages.
	OnStatus func(string)
}

func (c Callbacks) progress(pct int) {
	if c.OnProgress != nil {
		c.OnProgress(pct)
	}
}

func (c Callbacks) status(msg string) {
	if c.OnStatus != nil {
		c.OnStatus(msg)
	}
}

// Provisioner verifies and downloads model asset files. A failed or
// interrupted download is left on disk; IsFullyProvisioned rejects it via
// the minimum-size check and the next Provision run replaces it.
type Provisioner struct {
	headClient *http.Client
	getClient  *http.Client
	logger     *zap.Logger
	statFn     func(string) (os.FileInfo, error)
}

func NewProvisioner(logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provisioner{
		headClient: &http.Client{Timeout: 10 * time.Second},
		getClient: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second},
		},
		logger: logger,
		statFn: os.Stat,
	}
}

// IsFullyProvisioned reports whether every required file exists under dir,
// with the binary payload additionally meeting the spec's minimum size. It
// short-circuits on the first missing or undersized file and treats any
// filesystem error as "not provisioned".
func (p *Provisioner) IsFullyProvisioned(spec Spec, dir string) bool {
	for _, name := range spec.Files {
		info, err := p.statFn(filepath.Join(dir, name))
		if err != nil {
			p.logger.Warn("model file missing", zap.String("model", spec.Name), zap.String("file", name), zap.Error(err))
			return false
		}
		if name == BinaryFileName && info.Size() < spec.MinBinarySize {
			p.logger.Warn("model binary undersized, treating as corrupt",
				zap.String("model", spec.Name),
				zap.Int64("size", info.Size()),
				zap.Int64("min", spec.MinBinarySize))
			return false
		}
	}

	p.logger.Debug("all model files verified", zap.String("model", spec.Name), zap.String("dir", dir))
	return true
}

type pendingFile struct {
	name string
	url  string
	dest string
	size int64
}

// Provision downloads every required file not already present under dir.
// An existing binary payload below the spec minimum counts as missing and
// is removed before re-download, so a truncated file from an earlier
// interrupted run gets repaired here. The first non-2xx response or
// transport error aborts the whole run; no retries.
func (p *Provisioner) Provision(ctx context.Context, spec Spec, dir string, cb Callbacks) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory %s: %w", dir, err)
	}

	pending, totalSize, err := p.collectPending(ctx, spec, dir)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		p.logger.Info("all model files already downloaded", zap.String("model", spec.Name))
		return nil
	}

	var downloaded int64
	for _, f := range pending {
		p.logger.Info("downloading model file", zap.String("file", f.name), zap.String("url", f.url))
		if err := p.downloadFile(ctx, f, &downloaded, totalSize, cb); err != nil {
			return fmt.Errorf("download %s: %w", f.name, err)
		}
	}

	p.logger.Info("model download complete", zap.String("model", spec.Name), zap.Int("files", len(pending)))
	return nil
}

// EnsureAvailable is the startup composition: a no-op when the model is
// already fully provisioned, otherwise a status message and a full
// Provision run.
func (p *Provisioner) EnsureAvailable(ctx context.Context, spec Spec, dir string, cb Callbacks) error {
	if p.IsFullyProvisioned(spec, dir) {
		p.logger.Info("model already available", zap.String("model", spec.Name))
		return nil
	}

	cb.status(fmt.Sprintf("Downloading model %s...", spec.Name))
	return p.Provision(ctx, spec, dir, cb)
}

func (p *Provisioner) collectPending(ctx context.Context, spec Spec, dir string) ([]pendingFile, int64, error) {
	var pending []pendingFile
	var totalSize int64

	for _, name := range spec.Files {
		dest := filepath.Join(dir, name)
		if info, err := p.statFn(dest); err == nil {
			if name != BinaryFileName || info.Size() >= spec.MinBinarySize {
				p.logger.Debug("skipping existing file", zap.String("file", name))
				continue
			}
			p.logger.Warn("replacing undersized model binary",
				zap.String("file", name),
				zap.Int64("size", info.Size()),
				zap.Int64("min", spec.MinBinarySize))
			if err := os.Remove(dest); err != nil {
				return nil, 0, fmt.Errorf("remove undersized %s: %w", dest, err)
			}
		}

		url := spec.BaseURL + "/" + name
		size, err := p.remoteSize(ctx, url)
		if err != nil {
			return nil, 0, fmt.Errorf("probe %s: %w", url, err)
		}

		pending = append(pending, pendingFile{name: name, url: url, dest: dest, size: size})
		totalSize += size
	}

	return pending, totalSize, nil
}

func (p *Provisioner) remoteSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.headClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// A zero or unknown length still counts one byte toward the progress
	// denominator so the percentage math never divides by zero.
	if resp.ContentLength <= 0 {
		return 1, nil
	}
	return resp.ContentLength, nil
}

func (p *Provisioner) downloadFile(ctx context.Context, f pendingFile, downloaded *int64, totalSize int64, cb Callbacks) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return err
	}

	resp, err := p.getClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(f.dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.dest, err)
	}
	defer out.Close()

	writer := &cumulativeWriter{
		dst:        out,
		downloaded: downloaded,
		total:      totalSize,
		cb:         cb,
	}
	if _, err := io.Copy(writer, resp.Body); err != nil {
		return fmt.Errorf("stream body: %w", err)
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", f.dest, err)
	}

	p.logger.Debug("downloaded model file", zap.String("file", f.name), zap.Int64("bytes", writer.written))
	return nil
}

// cumulativeWriter counts bytes across the whole provisioning run so the
// reported percentage spans all pending files, not just the current one.
type cumulativeWriter struct {
	dst        io.Writer
	downloaded *int64
	written    int64
	total      int64
	cb         Callbacks
}

func (w *cumulativeWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	if n > 0 {
		w.written += int64(n)
		*w.downloaded += int64(n)
		if w.total > 0 {
			w.cb.progress(min(100, int(float64(*w.downloaded)/float64(w.total)*100)))
		}
	}
	return n, err
}
