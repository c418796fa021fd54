package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range edgeSeeds {
		f.Add([]byte(s))
	}
}

// edgeSeeds: входы, на которых ломалось восстановление после ошибок.
var edgeSeeds = []string{
	"",
	"module M { public int x\npublic int y; }",
	"module M { public void f() { x + y\nvar z = 3; } }",
	"module M { public void f( { } }",
	"public void f() { { { { } } } }",
	"public void f() { for (;;) { } }",
	"module M {\r\n  public string s = \"unterminated\r\n}",
	"implements ;\nmodule M { }",
	"module M { public int x = 0b102; public double d = 12.; }",
	"module M { } trailing",
	"\xef\xbb\xbfmodule M { }",
	"\xff\xfe",
	"'\\",
	"/* never closed",
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.bs файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".bs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
