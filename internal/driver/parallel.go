package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/diag"
	"bsharp/internal/source"
	"bsharp/internal/trace"
)

// SourceExt is the extension of source files.
const SourceExt = ".bs"

// ListSourceFiles возвращает отсортированный список всех *.bs файлов в директории.
// Скрытые каталоги (.git, .bsharp с кэшем) пропускаются.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все *.bs файлы в директории параллельно.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return ParseFiles(ctx, dir, files, opts)
}

// ParseFiles разбирает files параллельно, не более opts.Jobs одновременно.
// Результаты идут в порядке files; ошибка загрузки файла становится
// диагностикой IO4001 этого файла, а не ошибкой прогона. Ошибка прогона -
// только отмена контекста.
func ParseFiles(ctx context.Context, baseDir string, files []string, opts Options) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.OpParseFiles, trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", fmt.Sprint(len(files)))
	ctx = span.Context(ctx)

	buildpipeline.EmitQueued(opts.Progress, files)

	// FileSet не потокобезопасен на запись: загружаем всё до старта воркеров
	loadStart := time.Now()
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустая заглушка, чтобы диагностика указывала на этот путь
			loadErrors[path] = err
			fileID = fileSet.Add(path, nil, source.FileVirtual)
		}
		fileIDs[path] = fileID
	}
	opts.Timer.Add("load", time.Since(loadStart))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(opts.MaxDiagnostics)
				fileID := fileIDs[path]
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileID}, "failed to load file: "+loadErr.Error()))
				results[i] = FileResult{Path: path, FileID: fileID, Bag: bag, Err: loadErr}
				buildpipeline.Emit(opts.Progress, buildpipeline.Event{
					File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: loadErr, Errors: 1,
				})
				return nil
			}

			res := parseLoaded(gctx, fileSet.Get(fileIDs[path]), opts)
			results[i] = *res
			// отмена внутри парсера: ошибка прогона
			if err := gctx.Err(); err != nil && res.Err == err {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	failed := 0
	for i := range results {
		if results[i].HasErrors() {
			failed++
		}
	}
	span.WithExtra("failed", fmt.Sprint(failed)).End(statusText(err))
	return fileSet, results, err
}

func statusText(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

// MergeBags собирает диагностики всех файлов в один отсортированный Bag
// без повторов (один код на одном span).
func MergeBags(results []FileResult, max int) *diag.Bag {
	out := diag.NewBag(max)
	for i := range results {
		if results[i].Bag != nil {
			out.AddAll(results[i].Bag.Items())
		}
	}
	out.Sort()
	out.Dedup()
	return out
}
