package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
	"github.com/samcharles93/dltext/pkg/dltext"
)

type fileSummary struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Digest       string `json:"digest"`
	Magic        string `json:"magic"`
	TextOffset   int    `json:"text_offset"`
	Entries      int    `json:"entries"`
	Invalid      []int  `json:"invalid,omitempty"`
	DroppedBytes int    `json:"dropped_bytes"`
}

func inspectCmd() *cli.Command {
	var (
		showEntries bool
		onlyInvalid bool
		asJSON      bool
		limit       int
		filter      string
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarise a text file and list its entries",
		ArgsUsage: "<file>",
		Flags: append(decodeFlags(),
			&cli.BoolFlag{Name: "entries", Aliases: []string{"e"}, Usage: "list entries", Destination: &showEntries},
			&cli.BoolFlag{Name: "invalid", Usage: "list only entries whose text was rejected", Destination: &onlyInvalid},
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON", Destination: &asJSON},
			&cli.IntFlag{Name: "limit", Usage: "limit entry listing (0 = no limit)", Value: 50, Destination: &limit},
			&cli.StringFlag{Name: "filter", Usage: "substring filter for entry text", Destination: &filter},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("inspect: missing <file> argument")
			}
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
				return fmt.Errorf("inspect %s: %w", path, err)
			}
			if tf.Dropped > 0 {
				log.Warn("trailing bytes discarded", "file", path, "bytes", tf.Dropped)
			}

			sum := fileSummary{
				Path:         path,
				Size:         int64(len(raw)),
				Digest:       store.Digest(raw),
				Magic:        hex.EncodeToString(tf.Magic[:]),
				TextOffset:   tf.TextDefinitionOffset,
				Entries:      len(tf.Entries),
				Invalid:      tf.Invalid(),
				DroppedBytes: tf.Dropped,
			}
			if asJSON {
				out, err := json.MarshalIndent(sum, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			printSummary(sum)
			if showEntries || onlyInvalid {
				section("Entries")
				printEntries(tf, onlyInvalid, filter, limit)
			}
			return nil
		},
	}
}

func printSummary(s fileSummary) {
	row("File", s.Path)
	row("Size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(s.Size)), s.Size))
	row("BLAKE3", s.Digest)
	row("Magic", s.Magic)
	row("Text offset", fmt.Sprintf("%#x", s.TextOffset))
	row("Entries", fmt.Sprintf("%d", s.Entries))
	row("Rejected entries", fmt.Sprintf("%d", len(s.Invalid)))
	if s.DroppedBytes > 0 {
		row("Dropped bytes", fmt.Sprintf("%d", s.DroppedBytes))
	}
}

func printEntries(tf *dltext.File, onlyInvalid bool, filter string, limit int) {
	shown := 0
	for i, e := range tf.Entries {
		if onlyInvalid && e.Valid() {
			continue
		}
		if filter != "" && !strings.Contains(e.Text(), filter) {
			continue
		}
		if limit > 0 && shown >= limit {
			fmt.Printf("... (limit %d reached)\n", limit)
			return
		}
		mark := " "
		if !e.Valid() {
			mark = "!"
		}
		fmt.Printf("%s %6d  id=%-10d %q\n", mark, i, e.ID, e.Text())
		shown++
	}
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-18s %s\n", label+":", value)
}
