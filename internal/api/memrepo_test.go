package api

import (
	"context"
	"sync"
	"time"

	"p2v/internal/common"
	"p2v/internal/domain/model"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) first(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.first(func(u *model.User) bool { return u.Email == email })
}

func (m *memUsers) FindByGoogleSub(_ context.Context, sub string) (*model.User, error) {
	return m.first(func(u *model.User) bool { return u.GoogleSub != nil && *u.GoogleSub == sub })
}

func (m *memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	return m.first(func(u *model.User) bool { return u.ID == id })
}

func (m *memUsers) UpdateEmail(_ context.Context, id, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Email = email
	return nil
}

type memPlaces struct {
	mu   sync.Mutex
	byID map[string]*model.Place
}

func (m *memPlaces) Create(_ context.Context, p *model.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPlaces) Update(_ context.Context, p *model.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPlaces) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPlaces) FindByID(_ context.Context, id string) (*model.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlaces) List(_ context.Context, limit, offset int) ([]model.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Place{}
	for _, p := range m.byID {
		out = append(out, *p)
	}
	if offset >= len(out) {
		return []model.Place{}, nil
	}
	if limit > 0 && offset+limit < len(out) {
		out = out[:offset+limit]
	}
	return out[offset:], nil
}

func (m *memPlaces) UpdateTally(_ context.Context, t model.VoteTally) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[t.PlaceID]
	if !ok {
		return common.ErrNotFound
	}
	p.Upvotes, p.Downvotes = t.Upvotes, t.Downvotes
	return nil
}

type memVotes struct {
	mu    sync.Mutex
	votes map[[2]string]bool
}

func (m *memVotes) Upsert(_ context.Context, v *model.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes[[2]string{v.UserID, v.PlaceID}] = v.Vote
	return nil
}

func (m *memVotes) Delete(_ context.Context, userID, placeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.votes, [2]string{userID, placeID})
	return nil
}

func (m *memVotes) FindByUserAndPlace(_ context.Context, userID, placeID string) (*model.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[[2]string{userID, placeID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.Vote{UserID: userID, PlaceID: placeID, Vote: v}, nil
}

func (m *memVotes) TallyForPlace(_ context.Context, placeID string) (model.VoteTally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := model.VoteTally{PlaceID: placeID}
	for k, v := range m.votes {
		if k[1] != placeID {
			continue
		}
		if v {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	return t, nil
}

type memQueue struct {
	mu     sync.Mutex
	queued []string
}

func (q *memQueue) Enqueue(_ context.Context, placeID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queued = append(q.queued, placeID)
	return nil
}
