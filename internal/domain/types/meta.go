package types

import "time"

// Dashboard copy shared by the HTTP page and the CLI.
const (
	DashboardTitle = "Korean Dramas Dashboard"
	AboutDataset   = "This Dataset was obtained on Kaggle containing curated metadata for the " +
		"highest-ranked Korean dramas based on user ratings from MyDramaList. Each row " +
		"represents a single drama, with columns capturing broadcast details, creative " +
		"contributors, genres, ratings, and rankings."
)

// Meta describes the loaded dataset and the selectors a client can offer.
type Meta struct {
	Title    string    `json:"title"`
	About    string    `json:"about"`
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
	// YearMin and YearMax bound the year slider. They are the dataset's
	// observed bounds, or the configured ones for an empty dataset.
	YearMin            int      `json:"year_min"`
	YearMax            int      `json:"year_max"`
	Roles              []Option `json:"roles"`
	Metrics            []Option `json:"metrics"`
	TopN               int      `json:"top_n"`
	MaxLimit           int      `json:"max_limit"`
	SearchDefaultLimit int      `json:"search_default_limit"`
}
