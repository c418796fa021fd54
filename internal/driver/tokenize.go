package driver

import (
	"context"
	"fmt"
	"time"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/diag"
	"bsharp/internal/lexer"
	"bsharp/internal/source"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // включая trivia и завершающий EOF
	Bag     *diag.Bag
}

// Tokenize загружает файл и возвращает все его токены.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	file, err := load(fs, path, opts)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens := lexAll(ctx, file, bag, opts)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

func load(fs *source.FileSet, path string, opts Options) (*source.File, error) {
	start := time.Now()
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
	fileID, err := fs.Load(path)
	opts.Timer.Add("load", time.Since(start))
	if err != nil {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: err})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fs.Get(fileID), nil
}

// lexAll прогоняет отдельный лексер по файлу; диагностики идут в bag.
func lexAll(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) []token.Token {
	span := trace.BeginFile(trace.FromContext(ctx), trace.OpLex, file.Path, trace.CurrentSpan(ctx).SpanID)
	start := time.Now()
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{File: file.Path, Stage: buildpipeline.StageLex, Status: buildpipeline.StatusWorking})

	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tokens := make([]token.Token, 0, len(file.Content)/4+1)
	for tok := range lx.Tokens() {
		tokens = append(tokens, tok)
	}

	elapsed := time.Since(start)
	opts.Timer.Add("lex", elapsed)
	span.WithExtra("tokens", fmt.Sprint(len(tokens))).End(fmt.Sprintf("%d diagnostics", len(lx.Diagnostics())))
	return tokens
}
