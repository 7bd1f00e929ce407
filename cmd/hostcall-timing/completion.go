package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for hostcall-timing.

Bash:

  $ source <(hostcall-timing completion bash)

Zsh:

  $ hostcall-timing completion zsh > "${fpath[1]}/_hostcall-timing"

Fish:

  $ hostcall-timing completion fish | source

PowerShell:

  PS> hostcall-timing completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var err error

	switch args[0] {
	case "bash":
		err = rootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(out)
	case "fish":
		err = rootCmd.GenFishCompletion(out, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(out)
	}

	if err != nil {
		return errors.Wrap(err, "failed to generate completion script")
	}

	return nil
}
