package search_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/internal/domain/search"
	. "github.com/smartystreets/goconvey/convey"
)

func dataset(n int) *model.Dataset {
	records := []model.DramaRecord{
		{Name: "Move to Heaven", Rank: 1, Rating: 9.2},
		{Name: "Hospital Playlist", Rank: 2, Rating: 9.1},
		{Name: "Flower of Evil", Rank: 3, Rating: 9.1},
		{Name: "Hospital Playlist 2", Rank: 4, Rating: 9.1},
	}
	for i := len(records); i < n; i++ {
		// Low ranks and ratings first to show the default view ignores them.
		records = append(records, model.DramaRecord{Name: fmt.Sprintf("Drama %d", i), Rank: 100 - i, Rating: 7.0})
	}
	return model.NewDataset(records, "test")
}

func TestSearchDefaultView(t *testing.T) {
	Convey("Given a dataset with more than ten records", t, func() {
		ds := dataset(15)

		Convey("When the query is empty", func() {
			res, err := search.Search(ds, "", 0)

			Convey("Then the first ten records are returned in dataset order", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, search.StatusTop)
				So(len(res.Rows), ShouldEqual, 10)
				for i, row := range res.Rows {
					So(row.Name, ShouldEqual, ds.At(i).Name)
					So(row.Rank, ShouldEqual, ds.At(i).Rank)
					So(row.Rating, ShouldEqual, ds.At(i).Rating)
				}
				So(res.Message(), ShouldEqual, "Showing Top 10 Kdramas:")
			})
		})

		Convey("When a custom default limit is given", func() {
			res, err := search.Search(ds, "", 3)

			Convey("Then only that many rows are returned and the heading says so", func() {
				So(err, ShouldBeNil)
				So(len(res.Rows), ShouldEqual, 3)
				So(res.Message(), ShouldEqual, "Showing Top 3 Kdramas:")
			})
		})
	})

	Convey("Given a dataset with fewer than ten records", t, func() {
		res, err := search.Search(dataset(4), "", 0)

		Convey("Then every record is returned", func() {
			So(err, ShouldBeNil)
			So(len(res.Rows), ShouldEqual, 4)
		})
	})
}

func TestSearchMatches(t *testing.T) {
	Convey("Given a dataset", t, func() {
		ds := dataset(4)

		Convey("When the query matches case-insensitively", func() {
			res, err := search.Search(ds, "hOSPITAL", 0)

			Convey("Then matches are returned in dataset order", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, search.StatusMatches)
				So(len(res.Rows), ShouldEqual, 2)
				So(res.Rows[0].Name, ShouldEqual, "Hospital Playlist")
				So(res.Rows[1].Name, ShouldEqual, "Hospital Playlist 2")
				So(res.Message(), ShouldEqual, "Found 2 result(s):")
			})
		})

		Convey("When the query is a substring in the middle of a title", func() {
			res, err := search.Search(ds, "of ev", 0)

			Convey("Then the title is matched", func() {
				So(err, ShouldBeNil)
				So(len(res.Rows), ShouldEqual, 1)
				So(res.Rows[0].Name, ShouldEqual, "Flower of Evil")
			})
		})

		Convey("When the query contains regexp metacharacters", func() {
			_, err := search.Search(ds, "Heaven.*", 0)

			Convey("Then it is matched literally", func() {
				So(errors.Is(err, search.ErrNoMatch), ShouldBeTrue)
			})
		})

		Convey("When nothing matches", func() {
			res, err := search.Search(ds, "Goblin", 0)

			Convey("Then NoMatch is signalled distinctly from the default view", func() {
				So(errors.Is(err, search.ErrNoMatch), ShouldBeTrue)
				So(res.Status, ShouldEqual, search.StatusNoMatch)
				So(res.Rows, ShouldBeEmpty)
				So(res.Message(), ShouldEqual, "No Kdrama found with that name. Try another one!")
			})
		})
	})
}
