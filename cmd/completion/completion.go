// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for cellkit.

Install instructions:
  Bash:       cellkit completion bash > /etc/bash_completion.d/cellkit
              echo 'source <(cellkit completion bash)' >> ~/.bashrc
  Zsh:        cellkit completion zsh > ~/.zsh/completions/_cellkit
  Fish:       cellkit completion fish > ~/.config/fish/completions/cellkit.fish
  PowerShell: cellkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# cellkit bash completion")
				fmt.Fprintln(out, "# Install: cellkit completion bash > /etc/bash_completion.d/cellkit")
				fmt.Fprintln(out, "# Or:      echo 'source <(cellkit completion bash)' >> ~/.bashrc")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# cellkit zsh completion")
				fmt.Fprintln(out, "# Install: cellkit completion zsh > ~/.zsh/completions/_cellkit")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# cellkit fish completion")
				fmt.Fprintln(out, "# Install: cellkit completion fish > ~/.config/fish/completions/cellkit.fish")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# cellkit PowerShell completion")
				fmt.Fprintln(out, "# Install: cellkit completion powershell >> $PROFILE")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
