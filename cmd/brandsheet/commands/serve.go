package commands

import (
	"github.com/spf13/cobra"

	"github.com/locvowork/brandsheet/internal/bootstrap"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and validate endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.ran = true
			app := bootstrap.NewApp()
			app.Port = port
			if err := app.Initialize(cmd.Context()); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (defaults to APP_PORT)")
	return cmd
}
