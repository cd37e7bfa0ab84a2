// Package export serializes a consistent catalog snapshot into several
// document formats concurrently and packages them into one archive.
package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/storage"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the multi-format export. An optional object-storage
// backend receives a copy of each finished archive.
type Pipeline struct {
	cfg       config.Config
	publisher *storage.Storage
}

// NewPipeline constructs a pipeline. publisher may be nil.
func NewPipeline(cfg config.Config, publisher *storage.Storage) *Pipeline {
	return &Pipeline{cfg: cfg, publisher: publisher}
}

// Export loads the catalog once so every format writer observes the
// same data, runs one writer per format concurrently, waits for all of
// them, and packages the files into a timestamped zip archive. If any
// writer fails the whole export fails; no truncated archive is produced.
// Returns the archive path.
func (p *Pipeline) Export(ctx context.Context) (string, error) {
	books := store.NewBookStore(p.cfg.BooksPath())
	if err := books.Load(); err != nil {
		return "", err
	}
	snapshot := books.All()

	workDir, err := os.MkdirTemp("", "bibliogo-export-")
	if err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Each writer owns a disjoint output file; no shared mutable state.
	writers := map[string]func(string, []types.Book) error{
		FileJSON:   WriteJSON,
		FileXML:    WriteXML,
		FileCSV:    WriteCSV,
		FileBibTeX: WriteBibTeX,
	}

	g, _ := errgroup.WithContext(ctx)
	for name, write := range writers {
		g.Go(func() error {
			return write(filepath.Join(workDir, name), snapshot)
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("export writer: %w", err)
	}

	if err := os.MkdirAll(p.cfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	archivePath := filepath.Join(p.cfg.ExportDir, time.Now().Format("060102_150405")+".zip")
	if err := packArchive(archivePath, workDir, []string{FileJSON, FileXML, FileCSV, FileBibTeX}); err != nil {
		return "", err
	}

	if p.publisher != nil {
		if err := p.publish(ctx, archivePath); err != nil {
			return "", err
		}
	}

	return archivePath, nil
}

func (p *Pipeline) publish(ctx context.Context, archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive for publish: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	key := filepath.Base(archivePath)
	if err := p.publisher.Put(ctx, key, f, info.Size(), "application/zip"); err != nil {
		return fmt.Errorf("publish archive %s: %w", key, err)
	}
	return nil
}

// packArchive zips the named files with deflate compression, falling
// back to the stored method for any file the compressor rejects.
func packArchive(archivePath, dir string, names []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range names {
		if err := addFile(zw, filepath.Join(dir, name), name); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export file %s: %w", name, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		w, err = zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("add %s to archive: %w", name, err)
		}
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s to archive: %w", name, err)
	}
	return nil
}
