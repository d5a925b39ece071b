package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/kdrama/internal/adapters/render"
	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/types"
)

type rankFlags struct {
	role   string
	metric string
	from   int
	to     int
	limit  int
}

func newRankCommand(f *flags) *cobra.Command {
	rf := &rankFlags{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank contributors by average rating or number of dramas.",
		Long: `Rank groups the dramas released in a year range by director, screenwriter
or cast member and orders them by average rating or drama count. Without
--role and --metric it only prints a hint.`,
		Example: `  kdrama rank --role director --metric average_rating
  kdrama rank --role cast --metric drama_count --from 2015 --to 2020 --limit 5
  kdrama rank --role screenwriter --metric average_rating -o xlsx --output-file writers.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := rf.query()
			if err != nil {
				return err
			}
			s, err := open(cmd, f)
			if err != nil {
				return err
			}
			return finish(s, f, runRank(cmd, s, q, cmd.Flags().Changed("from"), cmd.Flags().Changed("to")))
		},
	}

	cmd.Flags().StringVar(&rf.role, "role", "", "Contributor role: director or screenwriter or cast")
	cmd.Flags().StringVar(&rf.metric, "metric", "", "Ranking metric: average_rating or drama_count")
	cmd.Flags().IntVar(&rf.from, "from", 0, "First release year (default: earliest in dataset)")
	cmd.Flags().IntVar(&rf.to, "to", 0, "Last release year (default: latest in dataset)")
	cmd.Flags().IntVarP(&rf.limit, "limit", "n", 0, "Number of contributors to show (default from config)")
	return cmd
}

func (rf *rankFlags) query() (ranking.Query, error) {
	role, err := types.ParseRole(rf.role)
	if err != nil {
		return ranking.Query{}, fmt.Errorf("%w: --role: %w", ErrInvalidFlag, err)
	}
	metric, err := types.ParseMetric(rf.metric)
	if err != nil {
		return ranking.Query{}, fmt.Errorf("%w: --metric: %w", ErrInvalidFlag, err)
	}
	if rf.limit < 0 {
		return ranking.Query{}, fmt.Errorf("%w: --limit must be positive, got %d", ErrInvalidFlag, rf.limit)
	}
	return ranking.Query{YearMin: rf.from, YearMax: rf.to, Role: role, Metric: metric, Limit: rf.limit}, nil
}

// runRank fills the years not given on the command line from the dataset.
func runRank(cmd *cobra.Command, s *session, q ranking.Query, hasFrom, hasTo bool) error {
	ctx := cmd.Context()
	if !hasFrom || !hasTo {
		meta, err := s.svc.Meta(ctx)
		if err != nil {
			return err
		}
		if !hasFrom {
			q.YearMin = meta.YearMin
		}
		if !hasTo {
			q.YearMax = meta.YearMax
		}
	}

	rk, err := s.svc.Rank(ctx, q)
	switch {
	case errors.Is(err, ranking.ErrMissingParameter):
		view := render.IdleRankingView(q.YearMin, q.YearMax)
		if s.format == render.FormatTable {
			_, err := infoColor.Fprintln(s.out, view.Message)
			return err
		}
		if s.format.Binary() {
			return fmt.Errorf("%w: choose --role and --metric to export a ranking", ranking.ErrMissingParameter)
		}
		return render.Ranking(s.out, s.format, view)
	case err != nil:
		return err
	}

	view := render.NewRankingView(rk)
	if s.format == render.FormatTable && view.Status == render.RankingEmpty {
		_, err := warnColor.Fprintln(s.out, view.Message)
		return err
	}
	return render.Ranking(s.out, s.format, view)
}
