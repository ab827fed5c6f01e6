package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// options are the flags shared by every command.
type options struct {
	json    bool
	verbose bool
}

// opener builds the app for a command. Tests replace it.
type opener func(ctx context.Context, verbose bool) (*app, error)

func newRootCommand(out io.Writer) *cobra.Command {
	return newRootCommandWith(out, openApp)
}

func newRootCommandWith(out io.Writer, open opener) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "plotctl",
		Short:         "Inspect cemetery plot inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	// run opens the app, hands it to fn and releases it afterwards.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
		a, err := open(cmd.Context(), opts.verbose)
		if err != nil {
			return err
		}
		if a.close != nil {
			defer a.close()
		}
		return fn(cmd.Context(), a)
	}

	root.AddCommand(
		newStatsCommand(opts, run),
		newSectionsCommand(opts, run),
		newStylesCommand(opts, run),
	)
	return root
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error

func newStatsCommand(opts *options, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show occupancy totals and burial types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				stats, err := a.plots.Stats(ctx)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				return renderStats(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func newSectionsCommand(opts *options, run runner) *cobra.Command {
	var (
		search string
		sort   string
		asc    bool
	)

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List sections with occupancy",
		Example: `  plotctl sections                   # highest occupancy first
  plotctl sections --sort name --asc # alphabetical
  plotctl sections --search b-1      # sections matching B-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				rows, err := a.plots.Sections(ctx, services.SectionQuery{
					Search:     search,
					SortField:  sort,
					Descending: !asc,
				})
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), rows)
				}
				return renderSections(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by section name")
	cmd.Flags().StringVar(&sort, "sort", "rate", "sort by name, total, occupied or rate")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort ascending")
	return cmd
}

func newStylesCommand(opts *options, run runner) *cobra.Command {
	var (
		mode     string
		from     int
		to       int
		selected string
	)

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Show the map style of every plot in a view mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := services.StyleQuery{Mode: mode, Selected: selected}
			if cmd.Flags().Changed("from") {
				q.From = &from
			}
			if cmd.Flags().Changed("to") {
				q.To = &to
			}
			return run(cmd, func(ctx context.Context, a *app) error {
				styles, err := a.maps.Styles(ctx, q)
				if err != nil {
					return err
				}
				if opts.json {
					return writeJSON(cmd.OutOrStdout(), styles)
				}
				return renderStyles(cmd.OutOrStdout(), styles)
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "standard", "standard, availability, blocks, timeline or maintenance")
	cmd.Flags().IntVar(&from, "from", 0, "first burial year shown in timeline mode")
	cmd.Flags().IntVar(&to, "to", 0, "last burial year shown in timeline mode")
	cmd.Flags().StringVar(&selected, "selected", "", "plot id to highlight")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
