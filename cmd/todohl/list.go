package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/render"
	"todohl/internal/ui"
)

type listFlags struct {
	ui             string
	minBucket      string
	printSelection bool
}

func newListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "Browse the annotations of one file",
		Long: `List shows the annotations of a file in priority order. On a terminal it
opens an interactive list where enter jumps the preview to the annotation;
otherwise it prints one line per annotation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "interactive list (auto|on|off)")
	cmd.Flags().StringVar(&f.minBucket, "min-bucket", "", "lightest bucket to list (fixme|high|medium|low)")
	cmd.Flags().BoolVar(&f.printSelection, "print-selection", false, "print path:line of the item chosen with enter")
	return cmd
}

func runList(cmd *cobra.Command, path string, f listFlags) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	minBucket := st.cfg.MinBucket()
	if f.minBucket != "" {
		if minBucket, err = rank.ParseBucket(f.minBucket); err != nil {
			return fmt.Errorf("--min-bucket: %w", err)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	fileSet, results, err := driver.ScanFiles(cmd.Context(), wd, []string{path}, driver.Options{
		Jobs:      1,
		MinBucket: minBucket,
		Timer:     st.timer,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%s: binary file", path)
	}
	res := results[0]
	if res.Err != nil {
		return res.Err
	}
	file := fileSet.Get(res.FileID)
	display := fileSet.DisplayPath(file)
	items := render.List(res.Result)

	out := cmd.OutOrStdout()
	if !shouldUseTUI(mode, out) {
		for _, item := range items {
			fmt.Fprintf(out, "%s:%d: %-7s %s\n", display, item.Line+1, item.Icon, item.Label)
		}
		printTimings(cmd.ErrOrStderr(), st.timer)
		return nil
	}

	model := ui.NewListModel(display, file, items)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return err
	}
	if f.printSelection {
		if item, ok := model.Selected(); ok {
			jump := render.JumpTo(item)
			fmt.Fprintf(out, "%s:%d:%d\n", display, jump.Line+1, jump.Character+1)
		}
	}
	printTimings(cmd.ErrOrStderr(), st.timer)
	return nil
}
