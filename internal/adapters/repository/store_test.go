package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/kdrama/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writeDataset(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(header+body), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
}

func TestDatasetStore(t *testing.T) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	Convey("Given a dataset file", t, func() {
		path := filepath.Join(t.TempDir(), "kdrama.csv")
		writeDataset(t, path, "A,2020,1,9.0,D1,W1,C1\nB,2021,2,8.0,D2,W2,C2\n")
		store := NewDatasetStore(path, WithLogger(logger.Named("repository")))
		ctx := context.Background()

		Convey("When nothing is loaded yet", func() {
			_, err := store.Snapshot()

			Convey("Then Snapshot reports ErrNotLoaded", func() {
				So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
				So(store.Report().Accepted, ShouldEqual, 0)
			})
		})

		Convey("When it is loaded", func() {
			report, err := store.Load(ctx)
			So(err, ShouldBeNil)
			ds, err := store.Snapshot()

			Convey("Then the snapshot and report are available", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2)
				So(report.Accepted, ShouldEqual, 2)
				So(store.Report().Accepted, ShouldEqual, 2)
				So(store.Loads(), ShouldEqual, 1)
				So(store.Path(), ShouldEqual, path)
			})

			Convey("And a reload fails", func() {
				So(os.WriteFile(path, []byte("Name,Rank\nX,1\n"), 0o600), ShouldBeNil)
				_, err := store.Reload(ctx)

				Convey("Then the previous snapshot is kept", func() {
					So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
					cur, err := store.Snapshot()
					So(err, ShouldBeNil)
					So(cur, ShouldEqual, ds)
					So(store.FailedLoads(), ShouldEqual, 1)
				})
			})

			Convey("And a reload succeeds", func() {
				writeDataset(t, path, "C,2022,1,9.5,D3,W3,C3\n")
				_, err := store.Reload(ctx)

				Convey("Then readers holding the old snapshot are unaffected", func() {
					So(err, ShouldBeNil)
					cur, _ := store.Snapshot()
					So(cur.Len(), ShouldEqual, 1)
					So(cur.At(0).Name, ShouldEqual, "C")
					So(ds.Len(), ShouldEqual, 2)
					So(ds.At(0).Name, ShouldEqual, "A")
				})
			})
		})
	})
}

func TestDatasetStoreWatch(t *testing.T) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	Convey("Given a loaded store being watched", t, func() {
		path := filepath.Join(t.TempDir(), "kdrama.csv")
		writeDataset(t, path, "A,2020,1,9.0,D,W,C\n")
		store := NewDatasetStore(path, WithWatchDebounce(20*time.Millisecond), WithLogger(logger.Named("watch")))
		_, err := store.Load(context.Background())
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- store.Watch(ctx) }()
		// Give the watcher time to register.
		time.Sleep(100 * time.Millisecond)

		Convey("When the file is rewritten", func() {
			writeDataset(t, path, "A,2020,1,9.0,D,W,C\nB,2021,2,8.0,D,W,C\n")

			Convey("Then the new snapshot is installed", func() {
				deadline := time.Now().Add(5 * time.Second)
				n := 0
				for time.Now().Before(deadline) {
					ds, _ := store.Snapshot()
					if n = ds.Len(); n == 2 {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(n, ShouldEqual, 2)

				cancel()
				So(<-done, ShouldBeNil)
			})
		})

		Reset(cancel)
	})
}
