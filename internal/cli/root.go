package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the kvlookup command tree. Running the root command
// without a subcommand serves, same as "kvlookup serve".
func NewRootCmd() *cobra.Command {
	var serverAddr string

	root := NewServeCmd("kvlookup")
	root.Short = "kvlookup serves a read-only key-value table over HTTP"
	root.SilenceUsage = true

	client := []*cobra.Command{NewGetCmd(&serverAddr), NewHealthCmd(&serverAddr)}
	for _, cmd := range client {
		cmd.Flags().StringVarP(&serverAddr, "server", "s", "http://127.0.0.1:9556", "Server base URL")
	}

	root.AddCommand(NewServeCmd("serve"))
	root.AddCommand(client...)
	return root
}
