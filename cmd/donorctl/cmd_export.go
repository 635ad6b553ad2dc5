package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kovil/internal/dashboard"
	"kovil/internal/daterange"
	"kovil/internal/export"
)

type exportOptions struct {
	query      dashboard.Query
	format     string
	out        string
	archive    bool
	archiveDir string
	s3Bucket   string
}

func (c *cli) exportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export donations in a reporting window",
		Long: `Export donations selected by a dashboard preset or a custom date range.

The file is written to --out (stdout when omitted). With --archive it is also
stored under EXPORT_ARCHIVE_DIR and/or EXPORT_S3_BUCKET, or the directory and
bucket given by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.query.Preset, "preset", "", "all, today, week, month, thismonth, lastmonth, thisyear, lastyear or custom")
	f.StringVar(&opts.query.StartDate, "start", "", "custom range start (YYYY-MM-DD)")
	f.StringVar(&opts.query.EndDate, "end", "", "custom range end (YYYY-MM-DD)")
	f.StringVar(&opts.format, "format", "csv", "csv, xlsx or zip")
	f.StringVarP(&opts.out, "out", "o", "", "output file")
	f.BoolVar(&opts.archive, "archive", false, "store a copy in the configured archives")
	f.StringVar(&opts.archiveDir, "archive-dir", "", "archive directory override")
	f.StringVar(&opts.s3Bucket, "s3-bucket", "", "archive bucket override")
	return cmd
}

func (c *cli) runExport(cmd *cobra.Command, opts *exportOptions) error {
	switch opts.format {
	case "csv", "xlsx", "zip":
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.query.Preset == "" && (opts.query.StartDate != "" || opts.query.EndDate != "") {
		opts.query.Preset = daterange.Custom
	}
	ctx := cmd.Context()
	ctr, err := c.container(ctx)
	if err != nil {
		return err
	}
	defer ctr.Close()

	items, rng, err := ctr.Dashboard.Donations(ctx, opts.query)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.out != "" {
		file, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	if opts.out != "" || !opts.archive {
		if err := export.Write(w, opts.format, items, c.cfg.Location); err != nil {
			return err
		}
	}

	if opts.archive {
		sinks, err := ctr.Archives(ctx, opts.archiveDir, opts.s3Bucket)
		if err != nil {
			return err
		}
		locations, err := export.Archive(ctx, sinks, opts.format, items, c.cfg.Location, time.Now())
		if err != nil {
			return err
		}
		for _, loc := range locations {
			c.logger.Info().Str("location", loc).Int("rows", len(items)).Str("range", rng.Key()).Msg("export archived")
			fmt.Fprintln(cmd.ErrOrStderr(), "archived", loc)
		}
	}
	return nil
}
