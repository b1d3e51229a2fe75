// Package commands provides the dscli command line entry point.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	modelFlag       string
	temperatureFlag float64
	noStreamFlag    bool
	debugFlag       bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dscli",
	Short: "Interactive terminal chat for the DeepSeek API",
	Long: `dscli holds a multi-turn conversation with the DeepSeek chat completion
API, with buffered or streamed replies.

The API key is read from DEEPSEEK_API_KEY; when it is unset and a terminal
is attached, dscli asks for it.

Inside the session, type /help for the list of commands. While a reply
streams, type /stop or press Ctrl-C to interrupt it.

Examples:
  dscli                         Start a chat with the configured model
  dscli -m deepseek-reasoner    Start with the reasoning model
  dscli --no-stream -t 0.2      Buffered replies, low temperature`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "dscli %s (built %s)\n", Version, BuildTime)
			return nil
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runChat(ctx, NewDependencies(), chatFlagsFrom(cmd))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "dscli"))
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., deepseek-chat, deepseek-reasoner)")
	rootCmd.Flags().Float64VarP(&temperatureFlag, "temperature", "t", 0, "Sampling temperature between 0 and 2")
	rootCmd.Flags().BoolVar(&noStreamFlag, "no-stream", false, "Wait for complete replies instead of streaming them")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "Show diagnostic logs")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
}

// chatFlagsFrom collects the flags that override the config file
func chatFlagsFrom(cmd *cobra.Command) chatFlags {
	return chatFlags{
		model:          modelFlag,
		modelSet:       cmd.Flags().Changed("model"),
		temperature:    temperatureFlag,
		temperatureSet: cmd.Flags().Changed("temperature"),
		noStream:       noStreamFlag,
		debug:          debugFlag,
	}
}
