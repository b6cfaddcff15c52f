package model

// PersonRow is a row in the names table.
type PersonRow struct {
	NConst      string
	PrimaryName string
	BirthYear   *int
	DeathYear   *int
}

// CreditRow joins one principals row with the movie it belongs to.
type CreditRow struct {
	MovieTitle string
	MovieID    string
	Category   string
	Characters *string
	IMDBRating *string
}

type Role struct {
	MovieName  string   `json:"movieName"`
	MovieID    string   `json:"movieId"`
	Category   string   `json:"category"`
	Characters []string `json:"characters"`
	IMDBRating *float64 `json:"imdbRating"`
}

type PersonDetail struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birthYear"`
	DeathYear *int   `json:"deathYear"`
	Roles     []Role `json:"roles"`
}
