// Package fetch makes competition files available on the local disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"

	"github.com/TFMV/kaggleset/pkg/dataset"
)

var (
	_ dataset.Materializer = Dir{}
	_ dataset.Materializer = (*Kaggle)(nil)
)

// Dir serves datasets that already exist under Root.
type Dir struct {
	Root string
}

// Materialize returns Root/name if it is a directory.
func (d Dir) Materialize(_ context.Context, name string) (string, error) {
	path := filepath.Join(d.Root, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("dataset %s: %w", name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("dataset %s: %s is not a directory", name, path)
	}
	return path, nil
}

// Kaggle downloads competition archives with the kaggle CLI and extracts
// them under DataDir. Archives are kept in CacheDir.
type Kaggle struct {
	DataDir  string
	CacheDir string
	// Command is the kaggle executable, "kaggle" when empty.
	Command string
}

// Materialize returns DataDir/name, downloading and extracting the
// competition archive unless the directory already has contents.
// Extraction happens in a temporary sibling that is renamed into place
// only once every file is written.
func (k *Kaggle) Materialize(ctx context.Context, name string) (string, error) {
	dataDir := filepath.Join(k.DataDir, name)
	entries, err := os.ReadDir(dataDir)
	switch {
	case err == nil && len(entries) > 0:
		log.Debug().Str("dataset", name).Str("dir", dataDir).Msg("Dataset already materialized")
		return dataDir, nil
	case err != nil && !os.IsNotExist(err):
		return "", fmt.Errorf("failed to read data dir: %w", err)
	}

	if err := os.MkdirAll(k.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(k.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	archive := filepath.Join(k.CacheDir, name+".zip")
	if _, err := os.Stat(archive); os.IsNotExist(err) {
		if err := k.download(ctx, name); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	tmp, err := os.MkdirTemp(k.DataDir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	n, err := Unzip(archive, tmp)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", archive, err)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return "", fmt.Errorf("failed to set permissions on %s: %w", tmp, err)
	}

	// An empty leftover directory is replaced.
	if err := os.Remove(dataDir); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to replace data dir: %w", err)
	}
	if err := os.Rename(tmp, dataDir); err != nil {
		return "", fmt.Errorf("failed to move extracted files into place: %w", err)
	}

	log.Info().Str("dataset", name).Str("dir", dataDir).Int("files", n).Msg("Extracted dataset")
	return dataDir, nil
}

func (k *Kaggle) download(ctx context.Context, name string) error {
	command := k.Command
	if command == "" {
		command = "kaggle"
	}

	log.Info().Str("dataset", name).Str("cache", k.CacheDir).Msg("Downloading competition files")

	cmd := exec.CommandContext(ctx, command, "competitions", "download", "-c", name)
	cmd.Dir = k.CacheDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s download failed: %w: %s", command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Unzip extracts the archive at src into dst and returns the number of
// files written. Entries that would land outside dst are rejected.
func Unzip(src, dst string) (int, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	root, err := filepath.Abs(dst)
	if err != nil {
		return 0, err
	}

	files := 0
	for _, f := range r.File {
		target := filepath.Join(root, f.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return files, fmt.Errorf("illegal path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return files, err
		}
		if err := extractFile(f, target); err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		files++
	}
	return files, nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
