// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `codesubmit completion` command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for codesubmit.

` + SubtitleStyle.Render("Bash:") + `
  eval "$(codesubmit completion bash)"

` + SubtitleStyle.Render("Zsh:") + `
  codesubmit completion zsh > "${fpath[1]}/_codesubmit"

` + SubtitleStyle.Render("Fish:") + `
  codesubmit completion fish > ~/.config/fish/completions/codesubmit.fish

` + SubtitleStyle.Render("PowerShell:") + `
  codesubmit completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
