package iconcheck

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/gabepsilva/icon-check/iconcheck/logger"
	"github.com/gabepsilva/icon-check/iconcheck/pngutil"
)

// ProgressCallback is called after each asset finishes
// done: assets completed so far
// total: total number of assets in the batch
type ProgressCallback func(done int, total int)

// Result is the outcome for a single asset.
type Result struct {
	Path            string
	Digest          digest.Digest
	Size            int64
	HasTransparency bool
	Err             error
}

// Passed reports whether the asset decoded cleanly and holds at least
// one non-opaque pixel.
func (r *Result) Passed() bool {
	return r.Err == nil && r.HasTransparency
}

// Failure renders the one-line failure description for the aggregate
// report, or "" when the asset passed.
func (r *Result) Failure() string {
	switch {
	case r.Passed():
		return ""
	case r.Err != nil && GetErrorCode(r.Err) == ErrAssetMissing.Code:
		return fmt.Sprintf("Missing icon file: %s", r.Path)
	case r.Err != nil:
		return fmt.Sprintf("Failed to validate %s: %v", r.Path, r.Err)
	default:
		return fmt.Sprintf("No transparent pixels found in %s", r.Path)
	}
}

// Stats contains statistics about a batch run
type Stats struct {
	TotalAssets  int
	PassedAssets int
	FailedAssets int
	TotalBytes   int64
}

// ChunkInfo summarizes one container chunk for display.
type ChunkInfo struct {
	Type string
	Size int
}

// Inspection is the detailed per-asset view behind the info command.
type Inspection struct {
	Path            string
	Digest          digest.Digest
	Size            int64
	Header          *pngutil.Header
	Chunks          []ChunkInfo
	HasTransparency bool
}

type Checker interface {
	// CheckAsset decodes one asset and reports its transparency verdict.
	// Failures land in Result.Err rather than aborting the caller.
	CheckAsset(ctx context.Context, path string) *Result
	// CheckAll runs the check over every path, at most jobs assets at a
	// time (0 means one per CPU). One asset's failure never stops the rest.
	CheckAll(ctx context.Context, paths []string, jobs int, progress ProgressCallback) ([]*Result, *Stats, error)
	// Inspect decodes one asset and returns its header metadata and
	// chunk layout alongside the transparency verdict.
	Inspect(ctx context.Context, path string) (*Inspection, error)
}

type checker struct {
	source AssetSource
}

func NewChecker(source AssetSource) Checker {
	return &checker{
		source: source,
	}
}

func (c *checker) CheckAsset(ctx context.Context, path string) *Result {
	result := &Result{Path: path}

	data, err := c.source.ReadAsset(ctx, path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Size = int64(len(data))
	result.Digest = digest.FromBytes(data)

	hasTransparency, err := pngutil.HasTransparency(data)
	if err != nil {
		logger.Debug("decode failed for %s: %v", path, err)
		result.Err = classifyDecodeError(path, err)
		return result
	}
	result.HasTransparency = hasTransparency
	logger.Debug("checked %s (%s): transparency=%v", path, result.Digest, hasTransparency)
	return result
}

func (c *checker) CheckAll(ctx context.Context, paths []string, jobs int, progress ProgressCallback) ([]*Result, *Stats, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each asset owns its buffers end to end, so the batch is a plain
	// parallel map with no shared decode state.
	results := make([]*Result, len(paths))
	var (
		mu   sync.Mutex
		done int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = c.CheckAsset(ctx, path)
			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(paths))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &Stats{TotalAssets: len(paths)}
	for _, result := range results {
		stats.TotalBytes += result.Size
		if result.Passed() {
			stats.PassedAssets++
		} else {
			stats.FailedAssets++
		}
	}
	return results, stats, nil
}

func (c *checker) Inspect(ctx context.Context, path string) (*Inspection, error) {
	data, err := c.source.ReadAsset(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks, _, err := pngutil.ReadChunks(data)
	if err != nil {
		return nil, classifyDecodeError(path, err)
	}
	header, err := pngutil.ParseHeader(chunks)
	if err != nil {
		return nil, classifyDecodeError(path, err)
	}
	hasTransparency, err := pngutil.EvaluateTransparency(chunks, header)
	if err != nil {
		return nil, classifyDecodeError(path, err)
	}

	inspection := &Inspection{
		Path:            path,
		Digest:          digest.FromBytes(data),
		Size:            int64(len(data)),
		Header:          header,
		HasTransparency: hasTransparency,
	}
	for _, chunk := range chunks {
		inspection.Chunks = append(inspection.Chunks, ChunkInfo{Type: chunk.Type, Size: len(chunk.Data)})
	}
	return inspection, nil
}
