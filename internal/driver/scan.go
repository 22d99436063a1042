package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"todohl/internal/observ"
	"todohl/internal/rank"
	"todohl/internal/source"
)

// Options controls a scan run.
type Options struct {
	Jobs        int      // parallel workers, 0 = GOMAXPROCS
	Extensions  []string // empty = any text file
	Exclude     []string // extra directory names to skip
	MinBucket   rank.Bucket
	MaxFindings int // per file, 0 = unlimited
	Timer       *observ.Timer
	Progress    ProgressSink
}

// FileResult is the scan outcome for one file. Err is set when the file could
// not be read; Result is then empty.
type FileResult struct {
	Path   string
	FileID source.FileID
	Result rank.Result
	Err    error
}

// ScanFiles loads every path into a new FileSet and scans them in parallel.
// Each file is an independent extraction; results keep the order of paths.
// Binary files are skipped when no extension filter is set, since the walk
// then picks up everything.
func ScanFiles(ctx context.Context, baseDir string, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)

	done := opts.Timer.Track("load")
	type loaded struct {
		path string
		id   source.FileID
		err  error
	}
	queue := make([]loaded, 0, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			queue = append(queue, loaded{path: path, err: err})
			continue
		}
		if len(opts.Extensions) == 0 && source.IsBinary(fileSet.Get(id).Content) {
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusSkipped})
			continue
		}
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		queue = append(queue, loaded{path: path, id: id})
	}
	done(fmt.Sprintf("%d files", len(queue)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(queue))
	if len(queue) == 0 {
		return fileSet, results, nil
	}

	done = opts.Timer.Track("scan")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(queue)))
	for i, item := range queue {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// index i is unique per goroutine, no lock needed
			if item.err != nil {
				results[i] = FileResult{Path: item.path, Err: item.err, Result: rank.ClassifyAndSort(nil)}
				return nil
			}
			emit(opts.Progress, Event{File: item.path, Stage: StageScan, Status: StatusWorking})
			file := fileSet.Get(item.id)
			results[i] = FileResult{
				Path:   item.path,
				FileID: item.id,
				Result: scanFile(file, opts),
			}
			emit(opts.Progress, Event{File: item.path, Stage: StageScan, Status: StatusDone, Findings: len(results[i].Result.Ordered)})
			return nil
		})
	}
	err := g.Wait()
	done("")
	if err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// ScanText scans an in-memory document such as stdin.
func ScanText(name, text string, opts Options) (*source.FileSet, FileResult) {
	fileSet := source.NewFileSet()
	content, _ := source.Normalize([]byte(text))
	id := fileSet.AddVirtual(name, content)
	return fileSet, FileResult{
		Path:   name,
		FileID: id,
		Result: scanFile(fileSet.Get(id), opts),
	}
}

func scanFile(file *source.File, opts Options) rank.Result {
	return rank.Scan(file.Text()).Filter(opts.MinBucket).Limit(opts.MaxFindings)
}

// Summary counts findings per bucket across results.
func Summary(results []FileResult) map[rank.Bucket]int {
	out := make(map[rank.Bucket]int, len(rank.Buckets))
	for _, b := range rank.Buckets {
		out[b] = 0
	}
	for _, r := range results {
		for _, b := range rank.Buckets {
			out[b] += r.Result.Count(b)
		}
	}
	return out
}
