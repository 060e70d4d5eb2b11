package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

var defaultSources = []string{"Salary", "Freelance", "Business", "Rides", "Investment"}

// InMemStorage keeps everything in process memory. Used when no database is configured and in tests.
type InMemStorage struct {
	mu       sync.RWMutex
	lastID   int64
	users    map[int64]user.Record
	telegram map[int64]int64
	sources  map[int64]record.Source
	earnings map[int64]record.Earning
	expenses map[int64]record.Expense
	now      func() time.Time
}

func NewInMemStorage() *InMemStorage {
	s := &InMemStorage{
		users:    make(map[int64]user.Record),
		telegram: make(map[int64]int64),
		sources:  make(map[int64]record.Source),
		earnings: make(map[int64]record.Earning),
		expenses: make(map[int64]record.Expense),
		now:      time.Now,
	}
	for _, name := range defaultSources {
		s.lastID++
		s.sources[s.lastID] = record.Source{ID: s.lastID, Name: name, IsActive: true, CreatedAt: s.now()}
	}
	return s
}

func (s *InMemStorage) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *InMemStorage) Ping(context.Context) error {
	return nil
}

func (s *InMemStorage) CreateUser(_ context.Context, rec user.Record) (user.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Email != "" {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, rec.Email) {
				return user.Record{}, errors.Wrap(customerr.ErrConflict, "create user")
			}
		}
	}
	rec.ID = s.nextID()
	rec.CreatedAt = s.now()
	rec.IsActive = true
	s.users[rec.ID] = rec
	return rec, nil
}

func (s *InMemStorage) EnsureTelegramUser(_ context.Context, telegramID int64, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.telegram[telegramID]; ok {
		return id, nil
	}
	id := s.nextID()
	s.users[id] = user.Record{
		ID:         id,
		TelegramID: &telegramID,
		Name:       name,
		Role:       user.DailyEarner,
		CreatedAt:  s.now(),
		IsActive:   true,
	}
	s.telegram[telegramID] = id
	return id, nil
}

func (s *InMemStorage) GetUserByID(_ context.Context, id int64) (user.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.Record{}, errors.Wrap(customerr.ErrNotFound, "get user")
	}
	return u, nil
}

func (s *InMemStorage) GetUserByEmail(_ context.Context, email string) (user.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.Record{}, errors.Wrap(customerr.ErrNotFound, "get user by email")
}

func (s *InMemStorage) UpdateUser(_ context.Context, rec user.Record) error {
	return s.updateUser(rec.ID, "update user", func(u *user.Record) {
		u.Name = rec.Name
		u.PhoneNumber = rec.PhoneNumber
		u.Profession = rec.Profession
	})
}

func (s *InMemStorage) UpdatePassword(_ context.Context, userID int64, hash string) error {
	return s.updateUser(userID, "update password", func(u *user.Record) {
		u.PasswordHash = hash
	})
}

func (s *InMemStorage) TouchLastLogin(_ context.Context, userID int64, at time.Time) error {
	return s.updateUser(userID, "touch last login", func(u *user.Record) {
		u.LastLoginAt = &at
	})
}

func (s *InMemStorage) updateUser(id int64, op string, update func(*user.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return errors.Wrap(customerr.ErrNotFound, op)
	}
	update(&u)
	s.users[id] = u
	return nil
}

func (s *InMemStorage) ListSources(context.Context) ([]record.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]record.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if src.IsActive {
			res = append(res, src)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res, nil
}

func (s *InMemStorage) GetSource(_ context.Context, id int64) (record.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[id]
	if !ok {
		return record.Source{}, errors.Wrap(customerr.ErrNotFound, "get source")
	}
	return src, nil
}

func (s *InMemStorage) GetSourceByName(_ context.Context, name string) (record.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, src := range s.sources {
		if strings.EqualFold(src.Name, name) {
			return src, nil
		}
	}
	return record.Source{}, errors.Wrap(customerr.ErrNotFound, "get source by name")
}

func (s *InMemStorage) CreateSource(_ context.Context, src record.Source) (record.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sources {
		if strings.EqualFold(existing.Name, src.Name) {
			return record.Source{}, errors.Wrap(customerr.ErrConflict, "create source")
		}
	}
	src.ID = s.nextID()
	src.IsActive = true
	src.CreatedAt = s.now()
	s.sources[src.ID] = src
	return src, nil
}

func inRange(date time.Time, from, to *time.Time) bool {
	d := record.Day(date)
	if from != nil && d.Before(record.Day(*from)) {
		return false
	}
	if to != nil && d.After(record.Day(*to)) {
		return false
	}
	return true
}

func (s *InMemStorage) withSourceName(e record.Earning) record.Earning {
	e.SourceName = ""
	if e.SourceID != nil {
		if src, ok := s.sources[*e.SourceID]; ok {
			e.SourceName = src.Name
		}
	}
	return e
}

func (s *InMemStorage) ListEarnings(_ context.Context, userID int64, from, to *time.Time) ([]record.Earning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]record.Earning, 0)
	for _, e := range s.earnings {
		if e.UserID == userID && inRange(e.Date, from, to) {
			res = append(res, s.withSourceName(e))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date.Equal(res[j].Date) {
			return res[i].ID > res[j].ID
		}
		return res[i].Date.After(res[j].Date)
	})
	return res, nil
}

func (s *InMemStorage) GetEarning(_ context.Context, userID, id int64) (record.Earning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.earnings[id]
	if !ok || e.UserID != userID {
		return record.Earning{}, errors.Wrap(customerr.ErrNotFound, "get earning")
	}
	return s.withSourceName(e), nil
}

func (s *InMemStorage) CreateEarning(_ context.Context, e record.Earning) (record.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.SourceID != nil {
		if _, ok := s.sources[*e.SourceID]; !ok {
			return record.Earning{}, errors.Wrap(customerr.ErrNotFound, "create earning")
		}
	}
	e.ID = s.nextID()
	e.Date = record.Day(e.Date)
	e.CreatedAt = s.now()
	s.earnings[e.ID] = e
	return s.withSourceName(e), nil
}

func (s *InMemStorage) UpdateEarning(_ context.Context, e record.Earning) (record.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.earnings[e.ID]
	if !ok || old.UserID != e.UserID {
		return record.Earning{}, errors.Wrap(customerr.ErrNotFound, "update earning")
	}
	e.Date = record.Day(e.Date)
	e.CreatedAt = old.CreatedAt
	s.earnings[e.ID] = e
	return s.withSourceName(e), nil
}

func (s *InMemStorage) DeleteEarning(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.earnings[id]
	if !ok || e.UserID != userID {
		return errors.Wrap(customerr.ErrNotFound, "delete earning")
	}
	delete(s.earnings, id)
	return nil
}

func (s *InMemStorage) ListExpenses(_ context.Context, userID int64, from, to *time.Time) ([]record.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]record.Expense, 0)
	for _, e := range s.expenses {
		if e.UserID == userID && inRange(e.Date, from, to) {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date.Equal(res[j].Date) {
			return res[i].ID > res[j].ID
		}
		return res[i].Date.After(res[j].Date)
	})
	return res, nil
}

func (s *InMemStorage) GetExpense(_ context.Context, userID, id int64) (record.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return record.Expense{}, errors.Wrap(customerr.ErrNotFound, "get expense")
	}
	return e, nil
}

func (s *InMemStorage) CreateExpense(_ context.Context, e record.Expense) (record.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID()
	e.Date = record.Day(e.Date)
	e.CreatedAt = s.now()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *InMemStorage) UpdateExpense(_ context.Context, e record.Expense) (record.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.expenses[e.ID]
	if !ok || old.UserID != e.UserID {
		return record.Expense{}, errors.Wrap(customerr.ErrNotFound, "update expense")
	}
	e.Date = record.Day(e.Date)
	e.CreatedAt = old.CreatedAt
	s.expenses[e.ID] = e
	return e, nil
}

func (s *InMemStorage) DeleteExpense(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return errors.Wrap(customerr.ErrNotFound, "delete expense")
	}
	delete(s.expenses, id)
	return nil
}
