package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/musicmixer/api/internal/model"
	"github.com/musicmixer/api/internal/promptflow"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var lyrics string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a track from a prompt",
		Example: `  mixer generate "uplifting synthwave for a night drive"
  mixer generate "acoustic ballad" --lyrics "[Verse] ..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := opts.client()
			flow := promptflow.New(func(ctx context.Context, prompt string) (*model.GenerationResult, error) {
				return api.GenerateMusic(ctx, prompt, lyrics)
			})

			result, err := submit(cmd, flow, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:    %s\n", result.ID)
			fmt.Fprintf(out, "audio: %s\n", result.AudioURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&lyrics, "lyrics", "", "Lyrics to attach to the track")

	return cmd
}

func newLyricsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "lyrics <prompt>",
		Short:   "Write song lyrics from a prompt",
		Example: `  mixer lyrics "a love song about the ocean"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := opts.client()
			flow := promptflow.New(api.GenerateLyrics)

			result, err := submit(cmd, flow, args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Lyrics)
			return nil
		},
	}
}

func newCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [query]",
		Short: "List or search the showcase catalog",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.client().Catalog(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCREATOR\tTAGS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Title, e.Creator, strings.Join(e.Tags, ", "))
			}
			return tw.Flush()
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := opts.client().Generations(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tCREATED\tOUTPUT")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Kind, r.CreatedAt.Format("2006-01-02 15:04:05"), summary(r))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of generations to show (max 50)")

	return cmd
}

// submit runs one prompt through the flow, reporting progress on stderr.
func submit(cmd *cobra.Command, flow *promptflow.Flow, args []string) (*model.GenerationResult, error) {
	status := cmd.ErrOrStderr()
	flow.OnChange(func(s promptflow.State) {
		if s == promptflow.Generating {
			fmt.Fprintln(status, "Generating...")
		}
	})

	flow.SetPrompt(strings.Join(args, " "))
	result, err := flow.Submit(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	return result, nil
}

func summary(r model.GenerationResult) string {
	if r.AudioURL != "" {
		return r.AudioURL
	}
	line, _, _ := strings.Cut(strings.TrimSpace(r.Lyrics), "\n")
	return truncate(line, 60)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
