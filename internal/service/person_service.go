package service

import (
	"context"
	"errors"
	"net/http"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

// PersonStore is the read surface for people and their credits.
type PersonStore interface {
	FindByID(ctx context.Context, id string) (model.PersonRow, error)
	Credits(ctx context.Context, id string) ([]model.CreditRow, error)
}

type PersonService struct {
	people PersonStore
}

func NewPersonService(people PersonStore) *PersonService {
	return &PersonService{people: people}
}

// GetPersonDetail returns the person record with a role per credit, each
// joined against the movie it belongs to.
func (s *PersonService) GetPersonDetail(ctx context.Context, id string) (model.PersonDetail, error) {
	person, err := s.people.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPersonNotFound) {
			return model.PersonDetail{}, apierror.New("NOT_FOUND",
				"No record exists of a person with this ID", http.StatusNotFound)
		}
		return model.PersonDetail{}, personFailed()
	}

	credits, err := s.people.Credits(ctx, id)
	if err != nil {
		return model.PersonDetail{}, personFailed()
	}

	roles := make([]model.Role, 0, len(credits))
	for _, c := range credits {
		roles = append(roles, model.Role{
			MovieName:  c.MovieTitle,
			MovieID:    c.MovieID,
			Category:   c.Category,
			Characters: parseCharacters(c.Characters),
			IMDBRating: parseRating(c.IMDBRating),
		})
	}

	return model.PersonDetail{
		Name:      person.PrimaryName,
		BirthYear: person.BirthYear,
		DeathYear: person.DeathYear,
		Roles:     roles,
	}, nil
}

func personFailed() error {
	return apierror.New("INTERNAL_ERROR",
		"An error occurred while retrieving person details", http.StatusInternalServerError)
}
