package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/desertthunder/freebeats/internal/models"
	"golang.org/x/time/rate"
)

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	License    string  // License applied to every file
	Tags       string  // Comma separated tags applied to every file
	Artist     string  // Artist used when a file has no artist tag
	Authorized bool    // The author confirmed they may publish every file in the batch
	NumWorkers int     // Concurrent encoders (default: 4, max: 8)
	RateLimit  float64 // Files started per second (default: 10)
}

// ImportResult is the outcome for one file.
type ImportResult struct {
	Path  string
	Track *models.Track
	Error error
}

// BulkImportResult summarizes an import batch.
type BulkImportResult struct {
	Total    int
	Imported int
	Failed   int
	Results  []ImportResult // Sorted by path
}

// FindAudioFiles walks dir and returns every file with a known audio extension, sorted.
func FindAudioFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsAudioFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Import publishes every file in paths with a worker pool and saves the successes in one write.
//
// Each file passes the same validation as [Catalog.Publish]. Titles and artists come from the file's tags, falling
// back to the file name and opts.Artist. Failures are reported per file and never abort the batch.
func (c *Catalog) Import(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	paths []string,
	opts ImportOpts,
) (*BulkImportResult, error) {
	if !opts.Authorized {
		return nil, invalid("authorized", "You must confirm you are authorized to publish these files.")
	}
	if _, err := models.ParseLicense(opts.License); err != nil {
		return nil, invalid("license", "Choose a valid license for the import.")
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	result := &BulkImportResult{
		Total:   len(paths),
		Results: make([]ImportResult, 0, len(paths)),
	}
	if len(paths) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string)
	results := make(chan ImportResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go c.importWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var imported []models.Track
	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error != nil {
			result.Failed++
			sendProgress(prog, importFailedUpdate(completed, len(paths), res))
			continue
		}
		result.Imported++
		imported = append(imported, *res.Track)
		sendProgress(prog, importCompletedUpdate(completed, len(paths), res))
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Path < result.Results[j].Path })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted: %w", err)
	}

	if len(imported) > 0 {
		tracks, err := c.repo.LoadForUpdate(ctx)
		if err != nil {
			return result, fmt.Errorf("import finished but the catalog could not be read: %w", err)
		}
		tracks = append(tracks, imported...)
		if err := c.repo.Save(ctx, tracks); err != nil {
			return result, fmt.Errorf("import finished but failed to save catalog: %w", err)
		}
	}

	c.logger.Info("import finished", "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

// importWorker is a worker goroutine that encodes files from the jobs channel.
func (c *Catalog) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- ImportResult,
	opts ImportOpts,
) {
	defer wg.Done()

	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- c.importSingleFile(ctx, path, opts)
	}
}

// importSingleFile validates and encodes one file without persisting it.
func (c *Catalog) importSingleFile(ctx context.Context, path string, opts ImportOpts) ImportResult {
	res := ImportResult{Path: path}

	file, err := FileFromPath(path, "")
	if err != nil {
		res.Error = err
		return res
	}

	sub := Submission{License: opts.License, Tags: opts.Tags, File: file, Authorized: true}
	if meta, err := ReadMetadata(path); err == nil {
		sub.ApplyMetadata(meta)
	} else {
		c.logger.Debug("import: unreadable tags", "path", path, "error", err)
	}
	if sub.Title == "" {
		sub.Title = titleFromFileName(file.Name)
	}
	if sub.Artist == "" {
		sub.Artist = opts.Artist
	}

	d, err := c.validate(sub)
	if err != nil {
		res.Error = err
		return res
	}

	track, err := c.build(ctx, d)
	if err != nil {
		res.Error = err
		return res
	}
	res.Track = track
	return res
}
