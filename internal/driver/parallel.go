package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sysyc/internal/trace"
)

// BuildResult is the outcome of compiling one input of BuildAll.
type BuildResult struct {
	Path    string         // input path
	OutPath string         // artifact path (empty on failure)
	Result  *CompileResult // nil when the file could not be loaded
	Err     error
}

// BuildAll compiles files concurrently, at most jobs at a time (jobs <= 0
// means GOMAXPROCS). Each file runs its own single-threaded pipeline and,
// on success, has its artifact written to OutputPath(file, outDir, mode).
// Per-file failures are recorded in the results; the returned error is only
// set when ctx is cancelled.
func BuildAll(ctx context.Context, files []string, outDir string, jobs int, opts Options) ([]BuildResult, error) {
	results := make([]BuildResult, len(files))
	if len(files) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "build")
	defer span.End("")

	for _, path := range files {
		opts.progress(path, StageParse, StatusQueued, nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileOpts := opts
			if opts.Progress != nil {
				fileOpts.Progress = fileSink{path: path, next: opts.Progress}
			}

			br := BuildResult{Path: path}
			br.Result, br.Err = Compile(gctx, path, fileOpts)
			if br.Err == nil {
				fileOpts.progress(path, StageWrite, StatusWorking, nil)
				out := OutputPath(path, outDir, opts.Mode)
				if br.Err = writeFileAtomic(out, br.Result.Output); br.Err == nil {
					br.OutPath = out
				}
			}
			if br.Err != nil {
				fileOpts.progress(path, StageWrite, StatusError, br.Err)
			} else {
				fileOpts.progress(path, StageWrite, StatusDone, nil)
			}
			results[i] = br
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
