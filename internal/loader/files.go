package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File discovery. The WAD name is everything in a filename up to the first
// '.'; extensions are otherwise ignored. Logic files live one per WAD; a WAD
// may have any number of tuning files, loaded sorted by filename so the fold
// order is defined.

func wadName(path string) string {
	base := filepath.Base(path)
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		return base[:idx]
	}
	return base
}

func baseName(path string) string {
	return filepath.Base(path)
}

func logicFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading logic dir %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func logicFileFor(dir, name string) (string, error) {
	files, err := logicFiles(dir)
	if err != nil {
		return "", err
	}
	for _, file := range files {
		if wadName(file) == name {
			return file, nil
		}
	}
	return "", fmt.Errorf("no logic file for wad %q in %s", name, dir)
}

func tuningFilesFor(dir, name string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tuning dir %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if wadName(entry.Name()) == name {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
