package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

const PerPage = 100

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	pagePattern = regexp.MustCompile(`^\d+$`)
)

// MovieStore is the read surface of the movie catalogue.
type MovieStore interface {
	Count(ctx context.Context, filter model.MovieFilter) (int, error)
	Search(ctx context.Context, filter model.MovieFilter, limit int, offset int) ([]model.MovieRow, error)
	FindByID(ctx context.Context, imdbID string) (model.MovieRow, error)
	Principals(ctx context.Context, imdbID string) ([]model.PrincipalRow, error)
}

type MovieService struct {
	movies MovieStore
}

func NewMovieService(movies MovieStore) *MovieService {
	return &MovieService{movies: movies}
}

// Search runs a paginated title search. Title matches case-insensitively on
// substring, year matches exactly, and both filters conjoin. Pages are fixed
// at 100 rows.
func (s *MovieService) Search(ctx context.Context, title string, year string, page string) (model.SearchPage, error) {
	if year != "" && !yearPattern.MatchString(year) {
		return model.SearchPage{}, apierror.New("BAD_REQUEST",
			"Invalid year format. Format must be yyyy.", http.StatusBadRequest)
	}
	if page != "" && !pagePattern.MatchString(page) {
		return model.SearchPage{}, apierror.New("BAD_REQUEST",
			"Invalid page format. page must be a number.", http.StatusBadRequest)
	}

	currentPage := 1
	if page != "" {
		if parsed, err := strconv.Atoi(page); err == nil && parsed > 1 {
			currentPage = parsed
		}
	}
	offset := (currentPage - 1) * PerPage

	filter := model.MovieFilter{Title: title, Year: year}

	total, err := s.movies.Count(ctx, filter)
	if err != nil {
		return model.SearchPage{}, searchFailed()
	}
	rows, err := s.movies.Search(ctx, filter, PerPage, offset)
	if err != nil {
		return model.SearchPage{}, searchFailed()
	}

	data := make([]model.MovieSummary, 0, len(rows))
	for _, row := range rows {
		data = append(data, model.MovieSummary{
			Title:                row.PrimaryTitle,
			Year:                 row.Year,
			IMDBID:               row.TConst,
			IMDBRating:           parseRating(row.IMDBRating),
			RottenTomatoesRating: parseRating(row.RottenTomatoesRating),
			MetacriticRating:     parseRating(row.MetacriticRating),
			Classification:       row.Rated,
		})
	}

	lastPage := (total + PerPage - 1) / PerPage
	var prevPage, nextPage *int
	if currentPage > 1 {
		p := currentPage - 1
		prevPage = &p
	}
	if currentPage < lastPage {
		n := currentPage + 1
		nextPage = &n
	}

	return model.SearchPage{
		Data: data,
		Pagination: model.Pagination{
			Total:       total,
			LastPage:    lastPage,
			PrevPage:    prevPage,
			NextPage:    nextPage,
			PerPage:     PerPage,
			CurrentPage: currentPage,
			From:        offset,
			To:          offset + len(rows),
		},
	}, nil
}

// GetMovieDetail assembles the movie record, its principals, and a ratings
// array built only from the scores the row actually carries.
func (s *MovieService) GetMovieDetail(ctx context.Context, imdbID string) (model.MovieDetail, error) {
	row, err := s.movies.FindByID(ctx, imdbID)
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return model.MovieDetail{}, apierror.New("NOT_FOUND",
				"No record exists of a movie with this ID", http.StatusNotFound)
		}
		return model.MovieDetail{}, detailFailed()
	}

	principalRows, err := s.movies.Principals(ctx, imdbID)
	if err != nil {
		return model.MovieDetail{}, detailFailed()
	}

	principals := make([]model.Principal, 0, len(principalRows))
	for _, p := range principalRows {
		principals = append(principals, model.Principal{
			ID:         p.NConst,
			Category:   p.Category,
			Name:       p.Name,
			Characters: parseCharacters(p.Characters),
		})
	}

	genres := []string{}
	if row.Genres != nil && *row.Genres != "" {
		genres = strings.Split(*row.Genres, ",")
	}

	return model.MovieDetail{
		Title:      row.PrimaryTitle,
		Year:       row.Year,
		Runtime:    row.RuntimeMinutes,
		Genres:     genres,
		Country:    row.Country,
		Principals: principals,
		Ratings:    buildRatings(row),
		BoxOffice:  row.BoxOffice,
		Poster:     row.Poster,
		Plot:       row.Plot,
	}, nil
}

// buildRatings includes a source only when the row has a score for it; an
// unparsable score still appears, with a null value.
func buildRatings(row model.MovieRow) []model.Rating {
	ratings := []model.Rating{}
	if row.IMDBRating != nil && *row.IMDBRating != "" {
		ratings = append(ratings, model.Rating{
			Source: "Internet Movie Database",
			Value:  parseRating(row.IMDBRating),
		})
	}
	if row.RottenTomatoesRating != nil && *row.RottenTomatoesRating != "" {
		ratings = append(ratings, model.Rating{
			Source: "Rotten Tomatoes",
			Value:  parseRating(row.RottenTomatoesRating),
		})
	}
	if row.MetacriticRating != nil && *row.MetacriticRating != "" {
		ratings = append(ratings, model.Rating{
			Source: "Metacritic",
			Value:  parseRating(row.MetacriticRating),
		})
	}
	return ratings
}

func searchFailed() error {
	return apierror.New("INTERNAL_ERROR",
		"An error occurred while retrieving movies", http.StatusInternalServerError)
}

func detailFailed() error {
	return apierror.New("INTERNAL_ERROR",
		"An error occurred while retrieving movie details", http.StatusInternalServerError)
}
