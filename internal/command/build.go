package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack/internal/metrics"
)

func (s *session) buildCmd() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle the entry points once",
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

			results := c.Compile(cmd.Context(), opts)
			if err := s.writeMetrics(); err != nil {
				return err
			}
			if len(results) > 0 {
				return results[0].Err
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (s *session) writeMetrics() error {
	path := s.metricsFile()
	if path == "" {
		return nil
	}
	if err := metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to export metrics: %w", err)
	}
	return nil
}
