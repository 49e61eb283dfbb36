package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/prckit/internal/api"
	"github.com/samcharles93/prckit/pkg/prc"
)

func inspectCmd() *cli.Command {
	var (
		showRecords bool
		strict      bool
		asJSON      bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the decoded header of a PRC file",
		ArgsUsage: "<input.prc>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "records",
				Aliases:     []string{"r"},
				Usage:       "list the record directory with computed lengths",
				Destination: &showRecords,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "report every advisory header check, not just the flag bit",
				Destination: &strict,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return cli.Exit("usage: prckit inspect [flags] <input.prc>", 1)
			}

			f, err := prc.Open(args.Get(0))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			if asJSON {
				out := struct {
					Header  api.HeaderReport   `json:"header"`
					Records []api.RecordReport `json:"records,omitempty"`
				}{Header: api.NewHeaderReport(f.Header, strict)}
				if showRecords {
					out.Records = api.NewRecordReports(f)
				}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println(string(b))
				return nil
			}

			printHeaderReport(f.Header, strict)
			if showRecords {
				printRecords(f)
			}
			return nil
		},
	}
}

func printHeaderReport(h *prc.Header, strict bool) {
	section("PRC Header")
	row("name", h.DisplayName())
	row("type", h.Type.String())
	row("creator", h.Creator.String())
	beamable := "yes"
	if !h.Beamable() {
		beamable = "no"
	}
	row("flags", fmt.Sprintf("0x%04x (beamable: %s)", h.Flags, beamable))
	row("version", fmt.Sprintf("0x%04x", h.Version))
	row("created", h.CreateTime.String())
	row("modified", h.ModTime.String())
	row("last backup", h.BackupTime.String())
	row("records", fmt.Sprintf("%d", h.NumRecords))

	if warnings := h.Validate(strict); len(warnings) > 0 {
		section("Warnings")
		for _, w := range warnings {
			fmt.Printf("- %s\n", w)
		}
	}
}

func printRecords(f *prc.File) {
	section("Records")
	for _, r := range api.NewRecordReports(f) {
		if !r.Valid {
			fmt.Printf("%3d  %-16s off=0x%08x  INVALID (%s)\n", r.Index, r.File, r.Offset, r.Error)
			continue
		}
		fmt.Printf("%3d  %-16s off=0x%08x  len=%d\n", r.Index, r.File, r.Offset, r.Length)
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
	fmt.Printf("%-14s %s\n", label+":", value)
}
