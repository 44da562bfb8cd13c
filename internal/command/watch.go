package command

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack"
)

func (s *session) watchCmd() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Bundle the entry points and rebuild when sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(cmd, s.opts.Build)
			if err != nil {
				return err
			}

			c, err := s.compiler(opts)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					s.logger.Warn().Err(err).Msg("failed to release compiler")
				}
			}()

			return c.Watch(cmd.Context(), opts, func(results []reactpack.Result) {
				for _, r := range results {
					writeError(cmd.ErrOrStderr(), r.Err)
				}
				if err := s.writeMetrics(); err != nil {
					s.logger.Warn().Err(err).Msg("failed to export metrics")
				}
			})
		},
	}
	f.register(cmd)
	return cmd
}
