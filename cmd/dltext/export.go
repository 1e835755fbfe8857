package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/catalog"
	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
)

func exportCmd() *cli.Command {
	var (
		outPath string
		format  string
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Write the entries of a text file to a JSON or YAML catalog",
		ArgsUsage: "<file>",
		Flags: append(decodeFlags(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"out"},
				Usage:       "catalog path (stdout when empty)",
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "catalog format: json|yaml (default from --output extension, else json)",
				Destination: &format,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("export: missing <file> argument")
			}
			opts, err := decodeOptions(cmd, path)
			if err != nil {
				return err
			}
			fmtName, err := catalogFormat(format, outPath)
			if err != nil {
				return err
			}

			tf, err := store.Open(path, opts)
			if err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
			if tf.Dropped > 0 {
				log.Warn("trailing bytes discarded", "file", path, "bytes", tf.Dropped)
			}
			for _, i := range tf.Invalid() {
				log.Warn("entry text rejected on decode; exported empty", "index", i, "id", tf.Entries[i].ID)
			}

			data, err := catalog.Marshal(catalog.Export(tf), fmtName)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := store.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			log.Info("catalog written", "file", outPath, "format", string(fmtName), "entries", len(tf.Entries))
			return nil
		},
	}
}

func catalogFormat(explicit, path string) (catalog.Format, error) {
	if explicit != "" {
		return catalog.ParseFormat(explicit)
	}
	if ext := filepath.Ext(path); ext != "" {
		return catalog.ParseFormat(ext)
	}
	return catalog.FormatJSON, nil
}
