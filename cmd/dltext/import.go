package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/catalog"
	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
	"github.com/samcharles93/dltext/pkg/dltext"
)

func importCmd() *cli.Command {
	var (
		basePath      string
		outPath       string
		format        string
		allowReject   bool
		allowMismatch bool
	)

	return &cli.Command{
		Name:      "import",
		Usage:     "Apply a JSON or YAML catalog and encode a text file",
		ArgsUsage: "<catalog>",
		Flags: append(decodeFlags(),
			&cli.StringFlag{
				Name:        "base",
				Usage:       "text file to apply the catalog to (the catalog alone is encoded when empty)",
				Destination: &basePath,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"out"},
				Usage:       "output text file path",
				Required:    true,
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "catalog format: json|yaml (default from the catalog extension)",
				Destination: &format,
			},
			&cli.BoolFlag{
				Name:        "allow-rejected",
				Usage:       "write the output even if some catalog text was rejected",
				Destination: &allowReject,
			},
			&cli.BoolFlag{
				Name:        "allow-mismatch",
				Usage:       "write the output even if catalog ids differ from the base file",
				Destination: &allowMismatch,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			catPath := cmd.Args().First()
			if catPath == "" {
				return fmt.Errorf("import: missing <catalog> argument")
			}
			fmtName, err := catalogFormat(format, catPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(catPath)
			if err != nil {
				return err
			}
			cat, err := catalog.Unmarshal(raw, fmtName)
			if err != nil {
				return fmt.Errorf("import %s: %w", catPath, err)
			}

			tf, err := importTarget(cmd, cat)
			if err != nil {
				return err
			}

			rep, err := catalog.Apply(tf, cat)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			for _, r := range rep.Rejected {
				log.Warn("text rejected", "index", r.Index, "id", r.ID, "rune", string(r.Rune), "position", r.Pos)
			}
			for _, i := range rep.Mismatched {
				log.Warn("id mismatch; row skipped", "index", i, "base_id", tf.Entries[i].ID)
			}
			if len(rep.Rejected) > 0 && !allowReject {
				return fmt.Errorf("import: %d entries rejected (use --allow-rejected to write anyway)", len(rep.Rejected))
			}
			if len(rep.Mismatched) > 0 && !allowMismatch {
				return fmt.Errorf("import: %d rows do not match base ids (use --allow-mismatch to write anyway)", len(rep.Mismatched))
			}

			data, err := store.Save(outPath, tf)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			log.Info("text file written",
				"file", outPath,
				"bytes", len(data),
				"text_offset", tf.MetadataLength(),
				"updated", rep.Updated,
				"unchanged", rep.Unchanged,
				"appended", rep.Appended,
				"digest", store.Digest(data),
			)
			return nil
		},
	}
}

// importTarget returns the file the catalog is applied to: the decoded
// --base file, or an empty file carrying the catalog's magic.
func importTarget(cmd *cli.Command, cat catalog.Catalog) (*dltext.File, error) {
	if basePath := cmd.String("base"); basePath != "" {
		opts, err := decodeOptions(cmd, basePath)
		if err != nil {
			return nil, err
		}
		tf, err := store.Open(basePath, opts)
		if err != nil {
			return nil, fmt.Errorf("import base %s: %w", basePath, err)
		}
		return tf, nil
	}

	magic, err := cat.DecodeMagic()
	if err != nil {
		return nil, err
	}
	tf, err := dltext.NewFile(dltext.MetadataLength(0))
	if err != nil {
		return nil, err
	}
	tf.Magic = magic
	return tf, nil
}
