package model_test

import (
	"testing"

	model "github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestSplitContributors(t *testing.T) {
	convey.Convey("Given comma-separated role fields", t, func() {
		convey.Convey("When the field has trailing separators and blanks", func() {
			names := model.SplitContributors("Kim A, Kim B,  ")

			convey.Convey("Then only non-empty trimmed tokens are returned", func() {
				convey.So(names, convey.ShouldResemble, []string{"Kim A", "Kim B"})
			})
		})

		convey.Convey("When the field is empty or whitespace", func() {
			convey.Convey("Then no contributors are produced", func() {
				convey.So(model.SplitContributors(""), convey.ShouldBeEmpty)
				convey.So(model.SplitContributors("   "), convey.ShouldBeEmpty)
				convey.So(model.SplitContributors(" , ,"), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When names differ only in case or spacing", func() {
			names := model.SplitContributors("Kim Eun-sook, kim eun-sook ")

			convey.Convey("Then they are kept as distinct names", func() {
				convey.So(names, convey.ShouldResemble, []string{"Kim Eun-sook", "kim eun-sook"})
			})
		})

		convey.Convey("When a name is repeated in one field", func() {
			names := model.SplitContributors("X, X")

			convey.Convey("Then each occurrence is kept", func() {
				convey.So(len(names), convey.ShouldEqual, 2)
			})
		})
	})
}

func TestDramaRecordField(t *testing.T) {
	convey.Convey("Given a drama record", t, func() {
		r := model.DramaRecord{
			Name:         "Move to Heaven",
			Director:     "Kim Sung-ho",
			Screenwriter: "Yoon Ji-ryun",
			Cast:         "Lee Je-hoon, Tang Jun-sang",
		}

		convey.Convey("Then Field selects the column for each role", func() {
			convey.So(r.Field(types.RoleDirector), convey.ShouldEqual, "Kim Sung-ho")
			convey.So(r.Field(types.RoleScreenwriter), convey.ShouldEqual, "Yoon Ji-ryun")
			convey.So(r.Field(types.RoleCast), convey.ShouldEqual, "Lee Je-hoon, Tang Jun-sang")
			convey.So(r.Field(types.RoleUnselected), convey.ShouldEqual, "")
		})

		convey.Convey("Then Contributors splits the selected column", func() {
			convey.So(r.Contributors(types.RoleCast), convey.ShouldResemble, []string{"Lee Je-hoon", "Tang Jun-sang"})
		})
	})
}

func TestDataset(t *testing.T) {
	convey.Convey("Given a dataset built from records", t, func() {
		records := []model.DramaRecord{
			{Name: "Hospital Playlist", Year: 2020},
			{Name: "Reply 1988", Year: 2015},
			{Name: "My Mister", Year: 2018},
		}
		ds := model.NewDataset(records, "test")

		convey.Convey("Then it preserves order and length", func() {
			convey.So(ds.Len(), convey.ShouldEqual, 3)
			convey.So(ds.At(1).Name, convey.ShouldEqual, "Reply 1988")
			convey.So(ds.Source(), convey.ShouldEqual, "test")
			convey.So(ds.LoadedAt().IsZero(), convey.ShouldBeFalse)
		})

		convey.Convey("Then it reports observed year bounds", func() {
			lo, hi, ok := ds.YearBounds()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(lo, convey.ShouldEqual, 2015)
			convey.So(hi, convey.ShouldEqual, 2020)
		})

		convey.Convey("Then it stores case-folded names", func() {
			convey.So(ds.FoldedName(0), convey.ShouldEqual, "hospital playlist")
		})

		convey.Convey("When the source slice is modified afterwards", func() {
			records[0].Name = "changed"

			convey.Convey("Then the dataset is unaffected", func() {
				convey.So(ds.At(0).Name, convey.ShouldEqual, "Hospital Playlist")
			})
		})

		convey.Convey("When iterating with Each and stopping early", func() {
			var seen []string
			ds.Each(func(_ int, r model.DramaRecord) bool {
				seen = append(seen, r.Name)
				return len(seen) < 2
			})

			convey.Convey("Then iteration stops when fn returns false", func() {
				convey.So(seen, convey.ShouldResemble, []string{"Hospital Playlist", "Reply 1988"})
			})
		})
	})

	convey.Convey("Given an empty dataset", t, func() {
		ds := model.NewDataset(nil, "")

		convey.Convey("Then year bounds are not available", func() {
			_, _, ok := ds.YearBounds()
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(ds.Len(), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a nil dataset", t, func() {
		var ds *model.Dataset

		convey.Convey("Then read accessors are safe", func() {
			convey.So(ds.Len(), convey.ShouldEqual, 0)
			convey.So(ds.Source(), convey.ShouldEqual, "")
			_, _, ok := ds.YearBounds()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
