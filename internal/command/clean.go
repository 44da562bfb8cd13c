package command

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack"
)

func (s *session) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove files matching the clean patterns from the destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.compiler(reactpack.BuildOptions{})
			if err != nil {
				return err
			}
			_, err = c.Clean()
			return err
		},
	}
}
