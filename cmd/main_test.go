package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/kdrama/internal/app"
	"github.com/okian/kdrama/internal/config"
	"github.com/okian/kdrama/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const testCSV = `Name,Year of release,Aired Date,Aired On,Number of Episode,Network,Duration,Content Rating,Synopsis,Cast,Genre,Tags,Rank,Rating,Director,Screenwriter
Move to Heaven,2021,"May 14, 2021",Friday,10,Netflix,52 min.,18+ Restricted (violence & profanity),-,"Lee Je Hoon, Tang Jun Sang",Life,-,#1,9.2,Kim Sung Ho,Yoon Ji Ryun
Hospital Playlist,2020,"Mar 12, 2020",Thursday,12,"Netflix, tvN",1 hr. 30 min.,15+ - Teens 15 or older,-,"Jo Jung Suk, Yoo Yeon Seok",Friendship,-,#2,9.1,Shin Won Ho,Lee Woo Jung
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kdrama.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestConfigToService(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		path := writeDataset(t)
		t.Setenv("KDRAMA_ADDR", ":8181")
		t.Setenv("KDRAMA_DATASET_PATH", path)
		t.Setenv("KDRAMA_TOP_N", "5")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
		convey.So(cfg.DatasetPath, convey.ShouldEqual, path)
		convey.So(cfg.TopN, convey.ShouldEqual, 5)

		convey.Convey("When the service is built and started", func() {
			convey.So(logger.Init(logger.WithOutput(&discard{})), convey.ShouldBeNil)
			svc := newService(cfg, logger.Get())
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			stats := svc.GetStats()

			convey.Convey("Then it reflects the configured values", func() {
				convey.So(stats["datasetPath"], convey.ShouldEqual, path)
				convey.So(stats["topN"], convey.ShouldEqual, 5)
				convey.So(stats["records"], convey.ShouldEqual, 2)
			})
		})
	})
}

func TestMux(t *testing.T) {
	convey.Convey("Given the full route table", t, func() {
		convey.So(logger.Init(logger.WithOutput(&discard{})), convey.ShouldBeNil)
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.DatasetPath = writeDataset(t)

		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, cfg, svc, logger.Get())

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			return rec
		}

		convey.Convey("Then every surface answers", func() {
			for _, path := range []string{"/", "/healthz", "/metrics", "/stats", "/api/meta", "/api/search?q=heaven", "/api-docs", "/openapi.yaml"} {
				convey.So(get(path).Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then a ranking is served", func() {
			rec := get("/api/ranking?role=director&metric=average_rating&year_min=2020&year_max=2021")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "Kim Sung Ho")
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop exits when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}

func TestServiceWithoutDataset(t *testing.T) {
	convey.Convey("Given a missing dataset file", t, func() {
		convey.So(logger.Init(logger.WithOutput(&discard{})), convey.ShouldBeNil)
		svc := app.New(app.WithDatasetPath(filepath.Join(t.TempDir(), "missing.csv")), app.WithLogger(logger.Get()))

		convey.Convey("Then start fails", func() {
			convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
		})
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
