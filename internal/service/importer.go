package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"lexibase/internal/codec"
	"lexibase/internal/domain"
	"lexibase/internal/repository"
	"lexibase/internal/watcher"
)

// Environment variables exported while a dataset is imported
const (
	EnvDataRoot = "IMPORTER_DATAROOT"
	EnvFilename = "IMPORTER_FILENAME"
)

// DryRunMessage is printed when an import is rolled back because --run was
// not given
const DryRunMessage = "Dry-run complete. Use --run to save changes. Rolling back."

// Importer applies dataset files to the repository
type Importer struct {
	repo     repository.Repository
	eventBus *EventBus
	logger   *zap.Logger
	dataDir  string
	out      io.Writer
}

// NewImporter creates an importer reading data files from dataDir and
// writing progress to out
func NewImporter(repo repository.Repository, eventBus *EventBus, logger *zap.Logger, dataDir string, out io.Writer) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{
		repo:     repo,
		eventBus: eventBus,
		logger:   named(logger, "import"),
		dataDir:  dataDir,
		out:      out,
	}
}

// Run is the import command. With no arguments it lists the data files;
// with one it imports that file, committing only when commit is set.
// EnvDataRoot is exported for the whole command.
func (im *Importer) Run(ctx context.Context, args []string, commit bool) (*domain.ImportResult, error) {
	restore := setEnv(map[string]string{EnvDataRoot: im.dataDir})
	defer restore()

	switch len(args) {
	case 0:
		files, err := im.ListDataFiles()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(im.out, "Listing files in %s:\n", im.dataDir)
		for _, f := range files {
			fmt.Fprintf(im.out, " - %s\n", f)
		}
		return nil, nil
	case 1:
		return im.Import(ctx, args[0], commit)
	default:
		return nil, errors.New("expecting one argument only")
	}
}

// ListDataFiles returns the importable files in the data directory, sorted.
// A data file starts with "0" and has a supported extension.
func (im *Importer) ListDataFiles() ([]string, error) {
	entries, err := os.ReadDir(im.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "0") {
			continue
		}
		if !slices.Contains(codec.Extensions(), strings.ToLower(filepath.Ext(name))) {
			continue
		}
		files = append(files, filepath.Join(im.dataDir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Import parses and applies one dataset file in a single transaction and
// revision. Without commit the transaction is always rolled back.
func (im *Importer) Import(ctx context.Context, filename string, commit bool) (*domain.ImportResult, error) {
	restore := setEnv(map[string]string{EnvDataRoot: im.dataDir, EnvFilename: filename})
	defer restore()

	filename = strings.TrimSpace(filename)
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("invalid filename %s", filename)
	}
	parser, err := codec.ForExtension(filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	ds, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	sum := blake2b.Sum256(data)
	comment := ds.Comment
	if comment == "" {
		comment = "Imported " + filepath.Base(filename)
	}
	rev := &domain.Revision{
		ID:      uuid.NewString(),
		Comment: comment,
		Digest:  hex.EncodeToString(sum[:]),
	}

	fmt.Fprintln(im.out, "Beginning transaction...")
	fmt.Fprintf(im.out, "Importing %q\n", filename)
	result, err := im.repo.ImportDataset(ctx, ds, rev, commit)
	if err != nil {
		im.logger.Error("import failed", zap.String("file", filename), zap.Error(err))
		return nil, err
	}
	if !commit {
		fmt.Fprintln(im.out, DryRunMessage)
	}
	fmt.Fprintln(im.out, "Ending transaction...")

	im.logger.Info("imported dataset",
		zap.String("file", filename),
		zap.Bool("committed", commit),
		zap.String("revision", result.RevisionID),
		zap.String("digest", result.Digest),
		zap.Int("records", ds.Size()))

	if commit {
		im.eventBus.Publish(Event{
			Type:    EventDatasetImported,
			Payload: map[string]any{"file": filepath.Base(filename), "revision": result.RevisionID, "created": result.Created},
		})
	}
	return result, nil
}

// Watch dry-runs filename now and again every time it changes, until ctx
// is cancelled. Failures are reported and watching continues.
func (im *Importer) Watch(ctx context.Context, filename string) error {
	rerun := func() {
		if _, err := im.Import(ctx, filename, false); err != nil {
			fmt.Fprintf(im.out, "Import failed: %v\n", err)
		}
	}
	rerun()

	err := watcher.New(filename, rerun, im.logger).Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setEnv sets vars and returns a func restoring their previous values
func setEnv(vars map[string]string) func() {
	type prev struct {
		value string
		set   bool
	}
	saved := make(map[string]prev, len(vars))
	for k, v := range vars {
		old, ok := os.LookupEnv(k)
		saved[k] = prev{old, ok}
		os.Setenv(k, v)
	}
	return func() {
		for k, p := range saved {
			if p.set {
				os.Setenv(k, p.value)
			} else {
				os.Unsetenv(k)
			}
		}
	}
}
