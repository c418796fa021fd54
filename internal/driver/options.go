package driver

import (
	"bsharp/internal/buildpipeline"
	"bsharp/internal/observ"
	"bsharp/internal/project"
)

// Options configures a driver run. Zero value: no limits, lenient parsing,
// GOMAXPROCS workers, no cache.
type Options struct {
	// MaxDiagnostics ограничивает Bag каждого файла (0: без лимита).
	MaxDiagnostics int
	Strict         bool
	MaxErrors      int
	Jobs           int
	// RoundTrip добавляет проверку, что токены и дерево воспроизводят файл.
	RoundTrip bool

	Cache    *DiskCache
	Progress buildpipeline.ProgressSink
	Timer    *observ.Timer
}

// OptionsFromManifest переносит [parse] в Options; кэш открывает вызывающий.
func OptionsFromManifest(m project.Manifest) Options {
	return Options{
		Strict:    m.Parse.Strict,
		MaxErrors: m.Parse.MaxErrors,
	}
}
