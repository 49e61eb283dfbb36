package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/prckit/internal/extract"
	"github.com/samcharles93/prckit/internal/logger"
	"github.com/samcharles93/prckit/pkg/prc"
)

func extractCmd() *cli.Command {
	var (
		byType  bool
		verbose bool
		strict  bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract all resources from a PRC file",
		ArgsUsage: "<input.prc> [output-dir]",
		Flags: append(loggingFlags(),
			&cli.BoolFlag{
				Name:        "by-type",
				Aliases:     []string{"t"},
				Usage:       "organize extracted files into subdirectories by resource type",
				Destination: &byType,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "print the decoded header before extracting",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "report every advisory header check, not just the flag bit",
				Destination: &strict,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 || args.Len() > 2 {
				return cli.Exit("usage: prckit extract [flags] <input.prc> [output-dir]", 1)
			}
			input := args.Get(0)
			outDir := args.Get(1)

			cfg := LoadConfig()
			applyLoggingConfig(cmd, cfg)
			applyExtractConfig(cmd, cfg, &byType, &strict)
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			if outDir == "" {
				outDir = "."
			}

			ctx = logger.WithContext(ctx, buildLogger())

			if _, err := os.Stat(input); err != nil {
				return cli.Exit(fmt.Sprintf("error: file %q not found", input), 1)
			}
			f, err := prc.Open(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			if verbose {
				printHeaderReport(f.Header, strict)
			}

			n, err := extract.Run(ctx, f, outDir, extract.Options{ByType: byType})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("%d resources and header written.\n", n)
			return nil
		},
	}
}
