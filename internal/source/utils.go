package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeSource приводит содержимое файла к UTF-8.
// UTF-8 BOM срезается, UTF-16 (LE/BE, определяется по BOM) перекодируется.
// Остальное считается UTF-8 и не трогается.
func decodeSource(content []byte) ([]byte, FileFlags, error) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], FileHadBOM, nil
	}
	if len(content) >= 2 && ((content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF)) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, content)
		if err != nil {
			return nil, 0, fmt.Errorf("decode utf-16 source: %w", err)
		}
		return out, FileDecodedUTF16, nil
	}
	return content, 0, nil
}

// buildLineIndex records the offset of every line terminator.
// "\r\n" counts once (at the '\n'), a lone '\r' counts as a break too.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16+1)
	for i, b := range content {
		switch b {
		case '\n':
			out = append(out, uint32(i))
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				continue
			}
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol: строка по бинпоиску в lineIdx, колонка в рунах, как у
// lexer.Cursor (невалидный байт UTF-8 считается одной руной).
func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo // 0-based
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	end := min(int(off), len(content))
	start := min(int(startOff), end)
	col, err := safecast.Conv[uint32](utf8.RuneCount(content[start:end]))
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	// смещение за концом файла: хвост добираем байтами
	col += off - uint32(end)
	return LineCol{Line: uint32(line + 1), Col: col + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the absolute form of path.
func AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

// RelativePath returns path relative to baseDir.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absBase, absPath)
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}

func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}
