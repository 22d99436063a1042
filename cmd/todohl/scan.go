package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"todohl/internal/annotfmt"
	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/source"
	"todohl/internal/version"
)

// errThreshold is returned when --fail-on finds an annotation at or above the
// threshold. main exits 1 without printing it.
var errThreshold = errors.New("annotations at or above the --fail-on threshold")

type scanFlags struct {
	format      string
	minBucket   string
	jobs        int
	extensions  []string
	exclude     []string
	maxFindings int
	failOn      string
	ui          string
}

func newScanCmd() *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files for TODO and FIXME annotations",
		Long: `Scan walks the given files and directories (default: the current directory)
and prints every TODO and FIXME comment ordered by priority. Use "-" to read
a single document from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "", "output format (pretty|short|json|yaml|msgpack|sarif)")
	flags.StringVar(&f.minBucket, "min-bucket", "", "lightest bucket to report (fixme|high|medium|low)")
	flags.IntVarP(&f.jobs, "jobs", "j", -1, "parallel workers, 0 = number of CPUs")
	flags.StringSliceVar(&f.extensions, "ext", nil, "file extensions to scan, e.g. --ext .go,.ts")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "extra directory names to skip")
	flags.IntVar(&f.maxFindings, "max-findings", -1, "maximum findings per file, 0 = unlimited")
	flags.StringVar(&f.failOn, "fail-on", "", "exit 1 when an annotation at or above this bucket exists")
	flags.StringVar(&f.ui, "ui", "off", "show a progress UI while scanning (auto|on|off)")
	return cmd
}

func runScan(cmd *cobra.Command, args []string, f scanFlags) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := st.cfg
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.minBucket != "" {
		cfg.Scan.MinBucket = f.minBucket
	}
	if f.jobs >= 0 {
		cfg.Scan.Jobs = f.jobs
	}
	if f.extensions != nil {
		cfg.Scan.Extensions = f.extensions
	}
	if f.exclude != nil {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, f.exclude...)
	}
	if f.maxFindings >= 0 {
		cfg.Scan.MaxFindings = f.maxFindings
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := annotfmt.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	var failOn *rank.Bucket
	if f.failOn != "" {
		b, err := rank.ParseBucket(f.failOn)
		if err != nil {
			return fmt.Errorf("--fail-on: %w", err)
		}
		failOn = &b
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Jobs:        cfg.Scan.Jobs,
		Extensions:  cfg.Scan.Extensions,
		Exclude:     cfg.Scan.Exclude,
		MinBucket:   cfg.MinBucket(),
		MaxFindings: cfg.Scan.MaxFindings,
		Timer:       st.timer,
	}

	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		var res driver.FileResult
		fileSet, res = driver.ScanText("<stdin>", string(data), opts)
		results = []driver.FileResult{res}
	} else {
		if len(args) == 0 {
			args = []string{"."}
		}
		done := st.timer.Track("discover")
		paths, err := driver.Discover(args, opts)
		if err != nil {
			return err
		}
		done(fmt.Sprintf("%d files", len(paths)))
		st.log.Debug("discovered files", "count", len(paths))

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if !st.quiet && shouldUseTUI(mode, cmd.ErrOrStderr()) {
			fileSet, results, err = runScanWithUI(cmd.Context(), cmd.ErrOrStderr(), wd, paths, opts)
		} else {
			fileSet, results, err = driver.ScanFiles(cmd.Context(), wd, paths, opts)
		}
		if err != nil {
			return err
		}
	}

	for _, r := range results {
		if r.Err != nil {
			st.log.Warn("unreadable file", "path", r.Path, "error", r.Err)
		}
	}

	done := st.timer.Track("render")
	err = annotfmt.Write(cmd.OutOrStdout(), format, fileSet, results, annotfmt.Options{
		Color: st.color,
		Tool:  annotfmt.ToolInfo{Name: "todohl", Version: version.Version},
	})
	done(string(format))
	if err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), st.timer)

	if failOn != nil {
		for _, r := range results {
			if r.Result.Any(*failOn) {
				return errThreshold
			}
		}
	}
	return nil
}
