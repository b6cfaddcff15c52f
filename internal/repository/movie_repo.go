package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-movie-api/internal/model"
)

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

const basicsColumns = `tconst, primary_title, year, runtime_minutes, genres, country,
	boxoffice, poster, plot, imdb_rating, rottentomatoes_rating, metacritic_rating, rated`

// searchFilter composes the conjunction of the optional title and year
// predicates. Returned SQL starts with WHERE or is empty.
func searchFilter(filter model.MovieFilter) (string, []any) {
	clauses := ""
	args := []any{}

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		clauses += fmt.Sprintf(" AND primary_title ILIKE $%d", len(args))
	}
	if filter.Year != "" {
		args = append(args, filter.Year)
		clauses += fmt.Sprintf(" AND year = $%d::int", len(args))
	}

	if clauses == "" {
		return "", nil
	}
	return " WHERE" + clauses[4:], args
}

func (r *MovieRepository) Count(ctx context.Context, filter model.MovieFilter) (int, error) {
	where, args := searchFilter(filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM basics`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

func (r *MovieRepository) Search(ctx context.Context, filter model.MovieFilter, limit int, offset int) ([]model.MovieRow, error) {
	where, args := searchFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM basics%s ORDER BY tconst LIMIT $%d OFFSET $%d`,
		basicsColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	movies := make([]model.MovieRow, 0)
	for rows.Next() {
		m, err := scanBasics(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *MovieRepository) FindByID(ctx context.Context, imdbID string) (model.MovieRow, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM basics WHERE tconst = $1`, basicsColumns), imdbID)

	m, err := scanBasics(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MovieRow{}, model.ErrMovieNotFound
	}
	if err != nil {
		return model.MovieRow{}, err
	}
	return m, nil
}

func (r *MovieRepository) Principals(ctx context.Context, imdbID string) ([]model.PrincipalRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT nconst, category, name, characters
		 FROM principals WHERE tconst = $1 ORDER BY ordering`, imdbID)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer rows.Close()

	principals := make([]model.PrincipalRow, 0)
	for rows.Next() {
		var p model.PrincipalRow
		if err := rows.Scan(&p.NConst, &p.Category, &p.Name, &p.Characters); err != nil {
			return nil, fmt.Errorf("scan principal: %w", err)
		}
		principals = append(principals, p)
	}
	return principals, rows.Err()
}

func scanBasics(row pgx.Row) (model.MovieRow, error) {
	var m model.MovieRow
	err := row.Scan(&m.TConst, &m.PrimaryTitle, &m.Year, &m.RuntimeMinutes, &m.Genres,
		&m.Country, &m.BoxOffice, &m.Poster, &m.Plot,
		&m.IMDBRating, &m.RottenTomatoesRating, &m.MetacriticRating, &m.Rated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MovieRow{}, err
		}
		return model.MovieRow{}, fmt.Errorf("scan movie: %w", err)
	}
	return m, nil
}
