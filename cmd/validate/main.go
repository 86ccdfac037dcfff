package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/wadrando/wadrando/internal/cache"
	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/internal/loader"
	"github.com/wadrando/wadrando/pkg/logic"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <logic-or-tuning file> [more files...]\n", os.Args[0])
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	failed := false

	for _, filename := range os.Args[1:] {
		if err := validateFile(filename, log); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func validateFile(filename string, log *slog.Logger) error {
	fmt.Printf("Validating %s...\n", filename)

	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	l := loader.New(config.Load(), logic.New(), cache.Nop{}, log)
	counts, err := l.ValidateFile(filename)
	if err != nil {
		return err
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	var parts []string
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, counts[kind]))
	}
	fmt.Printf("File is valid! (%s)\n", strings.Join(parts, " "))
	return nil
}
