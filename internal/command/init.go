package command

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack/internal/adapters/cli"
	"github.com/3-lines-studio/reactpack/internal/adapters/fs"
	"github.com/3-lines-studio/reactpack/internal/templates"
	"github.com/3-lines-studio/reactpack/internal/usecase"
)

func (s *session) initCmd() *cobra.Command {
	var (
		template string
		name     string
	)
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			output := cli.NewWriterOutput(s.deps.out, s.deps.errOut)
			if s.flags.noColor {
				output.DisableColors()
			}
			svc := usecase.NewInitService(fs.NewOSFileSystem(), output, s.logger)
			out := svc.InitProject(usecase.InitInput{ProjectDir: dir, Template: template, Name: name})
			return out.Error
		},
	}
	cmd.Flags().StringVar(&template, "template", templates.DefaultTemplate, "project template")
	cmd.Flags().StringVar(&name, "name", "", "project name (default: directory name)")
	return cmd
}
