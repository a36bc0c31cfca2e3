package driver

import (
	"os"
	"path/filepath"
	"strings"
)

// writeFileAtomic пишет во временный файл рядом с path и переименовывает его.
// Either the old content or the complete new content is visible, never a
// truncated file.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// WriteOutput writes a compiled artifact; "-" means stdout.
func WriteOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return writeFileAtomic(path, data)
}

// OutputPath derives an artifact path for input: the input's base name with
// the mode's extension, placed in outDir (or next to the input if empty).
func OutputPath(input, outDir string, mode EmitMode) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+mode.Ext())
}
