package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
)

// verifyCmd checks that a file survives decode and encode unchanged.
func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Decode and re-encode files and compare the result byte for byte",
		ArgsUsage: "<file>...",
		Flags:     decodeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("verify: missing <file> argument")
			}

			failed := 0
			for _, path := range paths {
				if err := verifyFile(cmd, path); err != nil {
					log.Error("verify failed", "file", path, "err", err)
					failed++
					continue
				}
				log.Info("verified", "file", path)
			}
			if failed > 0 {
				return fmt.Errorf("verify: %d of %d files failed", failed, len(paths))
			}
			return nil
		},
	}
}

func verifyFile(cmd *cli.Command, path string) error {
	opts, err := decodeOptions(cmd, path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tf, err := store.Decode(raw, opts)
	if err != nil {
		return err
	}
	if n := len(tf.Invalid()); n > 0 {
		return fmt.Errorf("%d entries hold text outside the allowed range", n)
	}
	out, err := tf.Encode()
	if err != nil {
		return err
	}
	if !bytes.Equal(out, raw) {
		return fmt.Errorf("re-encoded buffer differs (source %s, encoded %s, first difference at %#x)",
			store.Digest(raw), store.Digest(out), firstDiff(raw, out))
	}
	return nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
