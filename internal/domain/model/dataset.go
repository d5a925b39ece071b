package model

import (
	"time"

	"golang.org/x/text/cases"
)

// Dataset is an immutable, ordered collection of drama records. It is built
// once by the loader and may be shared by any number of readers.
type Dataset struct {
	records  []DramaRecord
	folded   []string // case-folded names, index-aligned with records
	minYear  int
	maxYear  int
	source   string
	loadedAt time.Time
}

// NewDataset copies records into a new Dataset. source describes where the
// records came from and is informational only.
func NewDataset(records []DramaRecord, source string) *Dataset {
	d := &Dataset{
		records:  make([]DramaRecord, len(records)),
		folded:   make([]string, len(records)),
		source:   source,
		loadedAt: time.Now(),
	}
	copy(d.records, records)

	fold := cases.Fold()
	for i, r := range d.records {
		d.folded[i] = fold.String(r.Name)
		if i == 0 || r.Year < d.minYear {
			d.minYear = r.Year
		}
		if i == 0 || r.Year > d.maxYear {
			d.maxYear = r.Year
		}
	}
	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) DramaRecord {
	return d.records[i]
}

// FoldedName returns the case-folded name of the i-th record.
func (d *Dataset) FoldedName(i int) string {
	return d.folded[i]
}

// Each calls fn for every record in order until fn returns false.
func (d *Dataset) Each(fn func(i int, r DramaRecord) bool) {
	if d == nil {
		return
	}
	for i, r := range d.records {
		if !fn(i, r) {
			return
		}
	}
}

// YearBounds returns the smallest and largest release year. ok is false for
// an empty dataset.
func (d *Dataset) YearBounds() (minYear, maxYear int, ok bool) {
	if d.Len() == 0 {
		return 0, 0, false
	}
	return d.minYear, d.maxYear, true
}

// Source returns the origin description given at construction.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// LoadedAt returns the construction time.
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}
