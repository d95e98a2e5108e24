package main

import (
	"github.com/dhamidi/comb/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a Language Server Protocol server reporting syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.compile(nil)
			if err != nil {
				return err
			}
			defer g.Free()

			server := lsp.NewServer(g, version)
			return server.RunStdio()
		},
	}
}
