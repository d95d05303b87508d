package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/musicmixer/api/internal/apiclient"
)

type options struct {
	server string
	token  string
}

func (o *options) client() *apiclient.Client {
	return apiclient.New(o.server, 0).WithToken(o.token)
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mixer",
		Short: "Command-line client for the MusicMixer API",
		Long: `Mixer sends prompts to a running MusicMixer server and prints the
generated track, the generated lyrics, the catalog or the recent history.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if !cmd.Flags().Changed("server") {
				if v := os.Getenv("MIXER_SERVER"); v != "" {
					opts.server = v
				}
			}
			if opts.token == "" {
				opts.token = os.Getenv("MIXER_TOKEN")
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", apiclient.DefaultBaseURL, "MusicMixer server URL (env MIXER_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token when the server requires auth (env MIXER_TOKEN)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newLyricsCmd(opts),
		newCatalogCmd(opts),
		newHistoryCmd(opts),
	)

	return cmd
}
