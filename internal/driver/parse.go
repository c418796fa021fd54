package driver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/diag"
	"bsharp/internal/lexer"
	"bsharp/internal/parser"
	"bsharp/internal/project"
	"bsharp/internal/source"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

// FileResult: итог обработки одного файла.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Parse пуст для файлов из кэша и файлов, которые не загрузились.
	Parse  parser.Result
	Tokens []token.Token // только при Options.RoundTrip
	Bag    *diag.Bag
	Cached bool
	// Err: strict-ошибка (*parser.SyntaxError) или ошибка загрузки.
	Err     error
	Elapsed time.Duration
}

// HasErrors reports whether the file produced error diagnostics or failed.
func (r *FileResult) HasErrors() bool {
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

// SyntaxError returns the strict-mode error, if any.
func (r *FileResult) SyntaxError() (*parser.SyntaxError, bool) {
	var se *parser.SyntaxError
	ok := errors.As(r.Err, &se)
	return se, ok
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	FileResult
}

// Parse загружает и разбирает один файл.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	file, err := load(fs, path, opts)
	if err != nil {
		return nil, err
	}
	res := parseLoaded(ctx, file, opts)
	if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
		return nil, res.Err
	}
	return &ParseResult{FileSet: fs, File: file, FileResult: *res}, nil
}

// ParseSource разбирает уже добавленный в FileSet файл (stdin, тесты).
func ParseSource(ctx context.Context, file *source.File, opts Options) *FileResult {
	return parseLoaded(ctx, file, opts)
}

// parseLoaded: кэш → лексер+парсер → round-trip → запись в кэш.
// Диагностики собираются без лимита: в кэш идёт полный список, а
// MaxDiagnostics применяется только к Bag результата.
func parseLoaded(ctx context.Context, file *source.File, opts Options) *FileResult {
	start := time.Now()
	out := &FileResult{
		Path:   file.Path,
		FileID: file.ID,
	}
	ctx = trace.WithFile(ctx, file.Path)

	key := cacheKey(file, opts)
	if opts.Cache != nil && !opts.RoundTrip {
		if payload, ok := opts.Cache.Lookup(ctx, key); ok {
			out.Bag = limitDiagnostics(opts.MaxDiagnostics, nil, payload.Restore(file.ID))
			out.Cached = true
			out.Elapsed = time.Since(start)
			buildpipeline.Emit(opts.Progress, buildpipeline.Event{
				File: file.Path, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusCached,
				Elapsed: out.Elapsed, Errors: countErrors(out.Bag),
			})
			return out
		}
	}

	if opts.RoundTrip {
		// отдельный лексер: в Bag попадут только диагностики парсера и его лексера
		out.Tokens = lexAll(ctx, file, diag.NewBag(0), opts)
	}

	parseStart := time.Now()
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: file.Path, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	all := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: all}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	out.Parse = parser.ParseFile(ctx, file, lx, parser.Options{
		Strict:    opts.Strict,
		MaxErrors: opts.MaxErrors,
		Reporter:  reporter,
	})
	out.Err = out.Parse.Err
	opts.Timer.Add("parse", time.Since(parseStart))

	var mismatches []diag.Diagnostic
	if opts.RoundTrip && out.Err == nil {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: file.Path, Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusWorking})
		checkStart := time.Now()
		span := trace.BeginFile(trace.FromContext(ctx), trace.OpRoundTrip, file.Path, trace.CurrentSpan(ctx).SpanID)
		mismatches = CheckRoundTrip(file, out.Tokens, out.Parse)
		span.End(plural(len(mismatches), "mismatch", "mismatches"))
		opts.Timer.Add("roundtrip", time.Since(checkStart))
	}
	out.Bag = limitDiagnostics(opts.MaxDiagnostics, mismatches, all.Items())

	// strict-ошибки и отмена в кэш не пишутся: результат зависит не только от файла
	if opts.Cache != nil && out.Err == nil && !opts.RoundTrip {
		opts.Cache.Store(ctx, key, NewPayload(file, all.Items()))
	}

	out.Elapsed = time.Since(start)
	status := buildpipeline.StatusDone
	if out.HasErrors() {
		status = buildpipeline.StatusError
	}
	stage := buildpipeline.StageParse
	if opts.RoundTrip {
		stage = buildpipeline.StageCheck
	}
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{
		File: file.Path, Stage: stage, Status: status,
		Err: out.Err, Elapsed: out.Elapsed, Errors: countErrors(out.Bag),
	})
	return out
}

// limitDiagnostics строит Bag результата с лимитом max. Диагностики first
// (потеря байтов при round-trip) занимают места раньше остальных; итог
// отсортирован по позиции.
func limitDiagnostics(max int, first, rest []diag.Diagnostic) *diag.Bag {
	bag := diag.NewBag(max)
	bag.AddAll(first)
	bag.AddAll(rest)
	if len(first) > 0 {
		bag.Sort()
	}
	return bag
}

func cacheKey(file *source.File, opts Options) project.Digest {
	strict := []byte("lenient")
	if opts.Strict {
		strict = []byte("strict")
	}
	limit := []byte{byte(opts.MaxErrors >> 24), byte(opts.MaxErrors >> 16), byte(opts.MaxErrors >> 8), byte(opts.MaxErrors)}
	return project.Combine(project.Digest(file.Hash), []byte(cacheSalt), strict, limit)
}

func countErrors(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity.IsError() {
			n++
		}
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
