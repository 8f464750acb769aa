package cli

import (
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.1.0"
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top–level `sq` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sq",
		Short: "sq — run statements against a relational database",
	}
	root.AddCommand(NewPingCmd())
	root.AddCommand(NewExecCmd())
	root.AddCommand(NewQueryCmd())
	root.AddCommand(NewVersionCmd())
	return root
}
