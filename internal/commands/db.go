package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskmill/taskmill/internal/app"
	"github.com/taskmill/taskmill/internal/output"
	"github.com/taskmill/taskmill/internal/store"
)

func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}

	cmd.AddCommand(newDBPathCmd())
	cmd.AddCommand(newDBSchemaCmd())
	return cmd
}

func newDBPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the resolved database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Path   string `json:"path"`
				Source string `json:"source"`
			}
			return output.PrintSuccess(resp{Path: path, Source: source})
		},
	}
	return cmd
}

func newDBSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var current, latest int64
			if err := withDB(func(db *DB) error {
				c, l, err := store.SchemaVersion(db)
				if err != nil {
					return err
				}
				current, latest = c, l
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Current int64 `json:"current"`
				Latest  int64 `json:"latest"`
			}
			return output.PrintSuccess(resp{Current: current, Latest: latest})
		},
	}
	return cmd
}
