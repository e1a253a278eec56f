package ingest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
)

// FileSource emits every regular file under Root matching Pattern, in
// lexical order.
type FileSource struct {
	Root    string
	Pattern string
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

func (s *FileSource) files() ([]string, error) {
	fsys := os.DirFS(s.Root)
	matches, err := doublestar.Glob(fsys, s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("ingest: glob %q: %w", s.Pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *FileSource) Run(ctx context.Context, emit func(context.Context, Record) error) error {
	files, err := s.files()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(s.progressWriter()),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Ingesting"),
	)
	defer func() { _ = bar.Finish() }()

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.Root, filepath.FromSlash(name))
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("ingest: read %s: %w", path, err)
		}
		if err := emit(ctx, Record{Key: path, Body: body}); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	return nil
}

func (s *FileSource) progressWriter() io.Writer {
	if s.Progress == nil {
		return io.Discard
	}
	return s.Progress
}
