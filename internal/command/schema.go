package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack/internal/adapters/configfile"
)

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of project configuration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, err := configfile.ReflectSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bs))
			return err
		},
	}
}
