package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go-movie-api/internal/model"
)

// In-memory store implementations backing unit and integration tests. They
// honor the same sentinel-error contract as the Postgres repositories.

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]model.User{}}
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[email]
	return ok, nil
}

func (s *MemoryUserStore) Create(_ context.Context, email string, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return model.ErrUserAlreadyExists
	}
	s.users[email] = model.User{Email: email, Hash: hash}
	return nil
}

func (s *MemoryUserStore) UpdateProfile(_ context.Context, email string, p model.ProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.DOB, u.Address = &p.FirstName, &p.LastName, &p.DOB, &p.Address
	s.users[email] = u
	return u, nil
}

func (s *MemoryUserStore) UpdateRefreshToken(_ context.Context, email string, ciphertext *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshTokenCiphertext = ciphertext
	s.users[email] = u
	return nil
}

type MemoryMovieStore struct {
	mu         sync.RWMutex
	movies     map[string]model.MovieRow
	principals map[string][]model.PrincipalRow
}

func NewMemoryMovieStore() *MemoryMovieStore {
	return &MemoryMovieStore{
		movies:     map[string]model.MovieRow{},
		principals: map[string][]model.PrincipalRow{},
	}
}

func (s *MemoryMovieStore) AddMovie(m model.MovieRow, principals ...model.PrincipalRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies[m.TConst] = m
	s.principals[m.TConst] = principals
}

func (s *MemoryMovieStore) matches(m model.MovieRow, filter model.MovieFilter) bool {
	if filter.Title != "" &&
		!strings.Contains(strings.ToLower(m.PrimaryTitle), strings.ToLower(filter.Title)) {
		return false
	}
	if filter.Year != "" {
		if m.Year == nil || filter.Year != strconv.Itoa(*m.Year) {
			return false
		}
	}
	return true
}

func (s *MemoryMovieStore) sortedMatches(filter model.MovieFilter) []model.MovieRow {
	matched := make([]model.MovieRow, 0)
	for _, m := range s.movies {
		if s.matches(m, filter) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].TConst < matched[j].TConst })
	return matched
}

func (s *MemoryMovieStore) Count(_ context.Context, filter model.MovieFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sortedMatches(filter)), nil
}

func (s *MemoryMovieStore) Search(_ context.Context, filter model.MovieFilter, limit int, offset int) ([]model.MovieRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sortedMatches(filter)
	if offset >= len(matched) {
		return []model.MovieRow{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *MemoryMovieStore) FindByID(_ context.Context, imdbID string) (model.MovieRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[imdbID]
	if !ok {
		return model.MovieRow{}, model.ErrMovieNotFound
	}
	return m, nil
}

func (s *MemoryMovieStore) Principals(_ context.Context, imdbID string) ([]model.PrincipalRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.PrincipalRow{}, s.principals[imdbID]...), nil
}

type MemoryPersonStore struct {
	mu      sync.RWMutex
	people  map[string]model.PersonRow
	credits map[string][]model.CreditRow
}

func NewMemoryPersonStore() *MemoryPersonStore {
	return &MemoryPersonStore{
		people:  map[string]model.PersonRow{},
		credits: map[string][]model.CreditRow{},
	}
}

func (s *MemoryPersonStore) AddPerson(p model.PersonRow, credits ...model.CreditRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.people[p.NConst] = p
	s.credits[p.NConst] = credits
}

func (s *MemoryPersonStore) FindByID(_ context.Context, id string) (model.PersonRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return model.PersonRow{}, model.ErrPersonNotFound
	}
	return p, nil
}

func (s *MemoryPersonStore) Credits(_ context.Context, id string) ([]model.CreditRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.CreditRow{}, s.credits[id]...), nil
}

