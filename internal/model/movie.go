package model

// MovieFilter restricts a title search. Both fields are optional and combine
// as a conjunction.
type MovieFilter struct {
	Title string
	Year  string
}

// MovieRow is a row in the basics table. The three rating columns keep their
// raw textual form; coercion to float happens when shaping responses.
type MovieRow struct {
	TConst               string
	PrimaryTitle         string
	Year                 *int
	RuntimeMinutes       *int
	Genres               *string
	Country              *string
	BoxOffice            *int64
	Poster               *string
	Plot                 *string
	IMDBRating           *string
	RottenTomatoesRating *string
	MetacriticRating     *string
	Rated                *string
}

// PrincipalRow is a row in the principals table for one movie. Characters is
// a serialized JSON list.
type PrincipalRow struct {
	NConst     string
	Category   string
	Name       string
	Characters *string
}

type MovieSummary struct {
	Title                string   `json:"title"`
	Year                 *int     `json:"year"`
	IMDBID               string   `json:"imdbID"`
	IMDBRating           *float64 `json:"imdbRating"`
	RottenTomatoesRating *float64 `json:"rottenTomatoesRating"`
	MetacriticRating     *float64 `json:"metacriticRating"`
	Classification       *string  `json:"classification"`
}

// Pagination reports the window of rows actually returned. From and To are
// the half-open row-offset bounds.
type Pagination struct {
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	PrevPage    *int `json:"prevPage"`
	NextPage    *int `json:"nextPage"`
	PerPage     int  `json:"perPage"`
	CurrentPage int  `json:"currentPage"`
	From        int  `json:"from"`
	To          int  `json:"to"`
}

type SearchPage struct {
	Data       []MovieSummary `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

type Rating struct {
	Source string   `json:"source"`
	Value  *float64 `json:"value"`
}

type Principal struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Name       string   `json:"name"`
	Characters []string `json:"characters"`
}

type MovieDetail struct {
	Title      string      `json:"title"`
	Year       *int        `json:"year"`
	Runtime    *int        `json:"runtime"`
	Genres     []string    `json:"genres"`
	Country    *string     `json:"country"`
	Principals []Principal `json:"principals"`
	Ratings    []Rating    `json:"ratings"`
	BoxOffice  *int64      `json:"boxoffice"`
	Poster     *string     `json:"poster"`
	Plot       *string     `json:"plot"`
}
