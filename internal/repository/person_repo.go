package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-movie-api/internal/model"
)

type PersonRepository struct {
	pool *pgxpool.Pool
}

func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

func (r *PersonRepository) FindByID(ctx context.Context, id string) (model.PersonRow, error) {
	var p model.PersonRow
	err := r.pool.QueryRow(ctx,
		`SELECT nconst, primary_name, birth_year, death_year
		 FROM names WHERE nconst = $1`, id).
		Scan(&p.NConst, &p.PrimaryName, &p.BirthYear, &p.DeathYear)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PersonRow{}, model.ErrPersonNotFound
	}
	if err != nil {
		return model.PersonRow{}, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

// Credits returns every principals row for the person joined against the
// movie it was earned in.
func (r *PersonRepository) Credits(ctx context.Context, id string) ([]model.CreditRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.primary_title, b.tconst, p.category, p.characters, b.imdb_rating
		 FROM principals p
		 JOIN basics b ON b.tconst = p.tconst
		 WHERE p.nconst = $1
		 ORDER BY b.tconst`, id)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()

	credits := make([]model.CreditRow, 0)
	for rows.Next() {
		var c model.CreditRow
		if err := rows.Scan(&c.MovieTitle, &c.MovieID, &c.Category, &c.Characters, &c.IMDBRating); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}
