package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/kdrama/internal/adapters/render"
)

func newMetaCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Describe the loaded dataset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd, f)
			if err != nil {
				return err
			}
			return finish(s, f, runMeta(cmd, s))
		},
	}
}

func runMeta(cmd *cobra.Command, s *session) error {
	m, err := s.svc.Meta(cmd.Context())
	if err != nil {
		return err
	}
	if s.format == render.FormatTable {
		if _, err := infoColor.Fprintln(s.out, m.Title); err != nil {
			return err
		}
		if _, err := s.out.Write([]byte(m.About + "\n\n")); err != nil {
			return err
		}
	}
	return render.Meta(s.out, s.format, m)
}
