package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest is the project configuration read from bsharp.toml or bsharp.yaml.
// Zero values mean "not set"; flags of the CLI override them.
type Manifest struct {
	Package PackageSection `toml:"package" yaml:"package"`
	Parse   ParseSection   `toml:"parse" yaml:"parse"`
	Cache   CacheSection   `toml:"cache" yaml:"cache"`

	// Path: откуда загружен манифест, пусто для Default().
	Path string `toml:"-" yaml:"-"`
}

type PackageSection struct {
	Name string `toml:"name" yaml:"name"`
	// Sources: каталоги с .bs файлами относительно корня проекта.
	Sources []string `toml:"sources,omitempty" yaml:"sources,omitempty"`
}

type ParseSection struct {
	Strict    bool `toml:"strict" yaml:"strict"`
	MaxErrors int  `toml:"max_errors" yaml:"max_errors"`
}

type CacheSection struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrInvalidPackageName indicates that [package].name is not an identifier.
	ErrInvalidPackageName = errors.New("invalid [package].name")
)

const (
	DefaultMaxErrors = 100
	DefaultCacheDir  = ".bsharp/cache"
)

// Default returns the manifest used when no file is found.
func Default(name string) Manifest {
	return Manifest{
		Package: PackageSection{Name: name, Sources: []string{"."}},
		Parse:   ParseSection{MaxErrors: DefaultMaxErrors},
		Cache:   CacheSection{Enabled: false, Dir: DefaultCacheDir},
	}
}

// Load parses a manifest; the format is chosen by extension.
func Load(path string) (Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to read manifest: %w", path, err)
	}
	m := Default("")
	var hasPackage bool
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return Manifest{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
		_, hasPackage = raw["package"]
		if err := yaml.Unmarshal(content, &m); err != nil {
			return Manifest{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(content), &m)
		if err != nil {
			return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		hasPackage = meta.IsDefined("package")
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Manifest{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	}
	if !hasPackage {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if !IsValidName(m.Package.Name) {
		return Manifest{}, fmt.Errorf("%s: %w %q", path, ErrInvalidPackageName, m.Package.Name)
	}
	if m.Parse.MaxErrors < 0 {
		return Manifest{}, fmt.Errorf("%s: [parse].max_errors must not be negative", path)
	}
	if len(m.Package.Sources) == 0 {
		m.Package.Sources = []string{"."}
	}
	m.Path = path
	return m, nil
}

// Discover ищет манифест вверх от startDir; без файла возвращает Default
// с именем каталога.
func Discover(startDir string) (Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Manifest{}, false, err
	}
	if !ok {
		abs, absErr := filepath.Abs(startDir)
		if absErr != nil {
			abs = startDir
		}
		return Default(NameFromDir(abs)), false, nil
	}
	m, err := Load(path)
	if err != nil {
		return Manifest{}, true, err
	}
	return m, true, nil
}

// Root returns the directory of the manifest, or "" for Default().
func (m Manifest) Root() string {
	if m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// CacheDir resolves [cache].dir against the project root.
func (m Manifest) CacheDir() string {
	dir := m.Cache.Dir
	if dir == "" {
		dir = DefaultCacheDir
	}
	if filepath.IsAbs(dir) || m.Root() == "" {
		return dir
	}
	return filepath.Join(m.Root(), dir)
}

// EncodeTOML renders the manifest as bsharp.toml content.
func (m Manifest) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders the manifest as bsharp.yaml content.
func (m Manifest) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write creates the manifest file in dir. Existing files are not overwritten
// unless force is set.
func Write(dir string, m Manifest, format string, force bool) (string, error) {
	var (
		name    string
		content []byte
		err     error
	)
	switch format {
	case "yaml":
		name = "bsharp.yaml"
		content, err = m.EncodeYAML()
	case "", "toml":
		name = "bsharp.toml"
		content, err = m.EncodeTOML()
	default:
		return "", fmt.Errorf("unknown manifest format %q", format)
	}
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// IsValidName: ASCII identifier, как имена модулей в исходниках.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NameFromDir derives a valid package name from the last element of dir.
func NameFromDir(dir string) string {
	return sanitizeName(filepath.Base(dir))
}

func sanitizeName(dir string) string {
	var b strings.Builder
	for i, r := range dir {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || r == '_'):
			b.WriteRune(r)
		case r <= unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "main"
	}
	return b.String()
}
