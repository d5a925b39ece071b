package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/kdrama/internal/adapters/render"
	"github.com/okian/kdrama/internal/domain/search"
)

func newSearchCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search [title]",
		Short: "Search dramas by title.",
		Long: `Search lists dramas whose title contains the query, ignoring case.
Without a query it shows the top dramas.`,
		Example: `  kdrama search
  kdrama search hospital
  kdrama search "flower of" --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, f)
			if err != nil {
				return err
			}
			return finish(s, f, runSearch(cmd, s, strings.Join(args, " ")))
		},
	}
}

func runSearch(cmd *cobra.Command, s *session, query string) error {
	res, err := s.svc.Search(cmd.Context(), query)
	if err != nil && !errors.Is(err, search.ErrNoMatch) {
		return err
	}
	view := render.NewSearchView(res)
	if s.format == render.FormatTable && res.Status == search.StatusNoMatch {
		_, err := warnColor.Fprintln(s.out, view.Message)
		return err
	}
	return render.Search(s.out, s.format, view)
}
