package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/kdrama/internal/app"
	"github.com/okian/kdrama/internal/adapters/repository"
	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/internal/domain/types"
	"github.com/okian/kdrama/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init(logger.WithOutput(io.Discard))
	if err != nil {
		panic(err)
	}
}

const dataset = `Name,Year of release,Aired Date,Number of Episode,Network,Duration,Content Rating,Synopsis,Cast,Genre,Tags,Rank,Rating,Director,Screenwriter
Move to Heaven,2021,"May 14, 2021",10,Netflix,52 min.,18+,...,"Lee Je-hoon, Tang Jun-sang, Hong Seung-hee",Life,,#1,9.2,Kim Sung-ho,Yoon Ji-ryun
Hospital Playlist,2020,"Mar 12, 2020",12,tvN,1 hr. 30 min.,15+,...,"Jo Jung-suk, Yoo Yeon-seok",Friendship,,#2,9.1,Shin Won-ho,Lee Woo-jung
Flower of Evil,2020,"Jul 29, 2020",16,tvN,1 hr. 10 min.,15+,...,"Lee Joon-gi, Moon Chae-won",Thriller,,#3,9.1,Kim Cheol-kyu,Yoo Jung-hee
Hospital Playlist 2,2021,"Jun 17, 2021",12,tvN,1 hr. 40 min.,15+,...,"Jo Jung-suk, Yoo Yeon-seok",Friendship,,#4,9.1,Shin Won-ho,Lee Woo-jung
Prison Playbook,2017,"Nov 22, 2017",16,tvN,1 hr. 32 min.,15+,...,"Park Hae-soo, Jung Kyung-ho",Comedy,,#8,9.1,Shin Won-ho,"Jung Bo-hoon, Lee Woo-jung"
Broken Row,2019,"Jan 1, 2019",16,KBS,1 hr.,15+,...,Nobody,Drama,,#9,eleven,Nobody,Nobody
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kdrama.csv")
	if err := os.WriteFile(path, []byte(dataset), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithDatasetPath(writeDataset(t))}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["topN"], ShouldEqual, 15)
			So(stats["datasetPath"], ShouldEqual, service.DefaultDatasetPath)
		})

		Convey("And queries before Start report the dataset as not loaded", func() {
			_, err := svc.Search(context.Background(), "")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			_, err = svc.Meta(context.Background())
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})
	})

	Convey("Given a top N above the maximum limit", t, func() {
		svc := service.New(service.WithTopN(50), service.WithMaxLimit(20))

		Convey("Then top N is capped", func() {
			So(svc.GetStats()["topN"], ShouldEqual, 20)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service pointing at a missing file", t, func() {
		svc := service.New(service.WithDatasetPath(filepath.Join(t.TempDir(), "missing.csv")))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrReadDataset), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})
	})

	Convey("Given a service with a valid dataset", t, func() {
		svc := started(t)

		Convey("Then it reports the load in its stats", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["records"], ShouldEqual, 5)
			So(stats["rows"], ShouldEqual, 6)
			So(stats["quarantined"], ShouldResemble, map[string]int{"rating": 1})
		})

		Convey("And a second Start is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})
}

func TestService_Search(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t, service.WithSearchDefaultLimit(3))
		ctx := context.Background()

		Convey("When searching with an empty query", func() {
			res, err := svc.Search(ctx, "")

			Convey("Then the configured default view is returned", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, search.StatusTop)
				So(len(res.Rows), ShouldEqual, 3)
				So(res.Rows[0].Name, ShouldEqual, "Move to Heaven")
				So(res.Rows[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When searching for a partial title", func() {
			res, err := svc.Search(ctx, "PLAY")

			Convey("Then matches are returned in dataset order", func() {
				So(err, ShouldBeNil)
				So(len(res.Rows), ShouldEqual, 3)
				So(res.Rows[2].Name, ShouldEqual, "Prison Playbook")
			})
		})

		Convey("When nothing matches", func() {
			_, err := svc.Search(ctx, "Goblin")
			So(errors.Is(err, search.ErrNoMatch), ShouldBeTrue)
		})
	})
}

func TestService_Rank(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t, service.WithTopN(2))
		ctx := context.Background()

		Convey("When ranking screenwriters by drama count", func() {
			rk, err := svc.Rank(ctx, ranking.Query{
				YearMin: 2003, YearMax: 2022,
				Role: types.RoleScreenwriter, Metric: types.MetricDramaCount,
			})

			Convey("Then multi-name fields are split and top N applies", func() {
				So(err, ShouldBeNil)
				So(rk.Query.Limit, ShouldEqual, 2)
				So(len(rk.Entries), ShouldEqual, 2)
				So(rk.Entries[0].Name, ShouldEqual, "Lee Woo-jung")
				So(rk.Entries[0].DramaCount, ShouldEqual, 3)
			})
		})

		Convey("When role is missing", func() {
			_, err := svc.Rank(ctx, ranking.Query{YearMin: 2003, YearMax: 2022, Metric: types.MetricDramaCount})
			So(errors.Is(err, ranking.ErrMissingParameter), ShouldBeTrue)
		})

		Convey("When the range is inverted", func() {
			_, err := svc.Rank(ctx, ranking.Query{
				YearMin: 2022, YearMax: 2003, Role: types.RoleCast, Metric: types.MetricDramaCount,
			})
			So(errors.Is(err, ranking.ErrInvalidRange), ShouldBeTrue)
		})

		Convey("Then rankings are counted", func() {
			_, _ = svc.Rank(ctx, ranking.Query{})
			So(svc.GetStats()["rankings"], ShouldBeGreaterThanOrEqualTo, int64(1))
		})
	})
}

func TestService_Meta(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		meta, err := svc.Meta(context.Background())

		Convey("Then meta reflects the dataset bounds", func() {
			So(err, ShouldBeNil)
			So(meta.Records, ShouldEqual, 5)
			So(meta.YearMin, ShouldEqual, 2017)
			So(meta.YearMax, ShouldEqual, 2021)
			So(meta.About, ShouldContainSubstring, "MyDramaList")
			So(meta.Roles[0].Key, ShouldEqual, "director")
		})
	})

	Convey("Given an empty dataset", t, func() {
		path := filepath.Join(t.TempDir(), "empty.csv")
		So(os.WriteFile(path, []byte("Name,Year of release,Rank,Rating,Director,Screenwriter,Cast\nBad,x,1,9,A,B,C\n"), 0o600), ShouldBeNil)
		svc := service.New(service.WithDatasetPath(path), service.WithYearBounds(2005, 2010))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the configured year bounds are used", func() {
			meta, err := svc.Meta(context.Background())
			So(err, ShouldBeNil)
			So(meta.Records, ShouldEqual, 0)
			So(meta.YearMin, ShouldEqual, 2005)
			So(meta.YearMax, ShouldEqual, 2010)
		})
	})

	Convey("Given a dataset file with only a header", t, func() {
		path := filepath.Join(t.TempDir(), "header.csv")
		So(os.WriteFile(path, []byte("Name,Year of release,Rank,Rating,Director,Screenwriter,Cast\n"), 0o600), ShouldBeNil)
		svc := service.New(service.WithDatasetPath(path), service.WithYearBounds(2005, 2010))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the service starts with no records and the configured bounds", func() {
			meta, err := svc.Meta(context.Background())
			So(err, ShouldBeNil)
			So(meta.Records, ShouldEqual, 0)
			So(meta.YearMin, ShouldEqual, 2005)
			So(meta.YearMax, ShouldEqual, 2010)
		})
	})
}

func TestService_Watch(t *testing.T) {
	Convey("Given a service watching its dataset", t, func() {
		path := writeDataset(t)
		svc := service.New(service.WithDatasetPath(path), service.WithWatch(true), service.WithWatchDebounce(20*time.Millisecond))
		So(svc.Start(context.Background()), ShouldBeNil)
		time.Sleep(100 * time.Millisecond)

		Convey("When the file gains a row", func() {
			extra := "Mouse,2021,x,20,tvN,1 hr.,18+,...,Lee Seung-gi,Thriller,,#10,8.8,Choi Joon-bae,Choi Ran\n"
			f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
			So(err, ShouldBeNil)
			_, err = f.WriteString(extra)
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			Convey("Then the service serves the new snapshot", func() {
				deadline := time.Now().Add(5 * time.Second)
				records := 0
				for time.Now().Before(deadline) {
					meta, _ := svc.Meta(context.Background())
					if records = meta.Records; records == 6 {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(records, ShouldEqual, 6)
				svc.Stop()
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})

		Reset(svc.Stop)
	})
}
