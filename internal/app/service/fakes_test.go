package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"p2v/internal/common"
	"p2v/internal/common/security"
	"p2v/internal/domain/model"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	// beforeCreate runs before Create inserts; used to simulate a racing writer.
	beforeCreate func(u *model.User)
	findErr      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook(u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return common.ErrConflict
		}
		if u.GoogleSub != nil && existing.GoogleSub != nil && *existing.GoogleSub == *u.GoogleSub {
			return common.ErrConflict
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) insert(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByGoogleSub(_ context.Context, sub string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.GoogleSub != nil && *u.GoogleSub == sub })
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.ID != id {
			return common.ErrConflict
		}
	}
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Email = email
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakePlaceRepo struct {
	places  map[string]*model.Place
	tallies []model.VoteTally

	lastLimit, lastOffset int
}

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{places: map[string]*model.Place{}}
}

func (r *fakePlaceRepo) Create(_ context.Context, p *model.Place) error {
	p.CreatedAt = time.Now()
	cp := *p
	r.places[p.ID] = &cp
	return nil
}

func (r *fakePlaceRepo) Update(_ context.Context, p *model.Place) error {
	if _, ok := r.places[p.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *p
	r.places[p.ID] = &cp
	return nil
}

func (r *fakePlaceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.places[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.places, id)
	return nil
}

func (r *fakePlaceRepo) FindByID(_ context.Context, id string) (*model.Place, error) {
	p, ok := r.places[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlaceRepo) List(_ context.Context, limit, offset int) ([]model.Place, error) {
	r.lastLimit, r.lastOffset = limit, offset
	out := []model.Place{}
	for _, p := range r.places {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlaceName < out[j].PlaceName })
	if offset >= len(out) {
		return []model.Place{}, nil
	}
	if limit <= 0 {
		return out[offset:], nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakePlaceRepo) UpdateTally(_ context.Context, t model.VoteTally) error {
	p, ok := r.places[t.PlaceID]
	if !ok {
		return common.ErrNotFound
	}
	p.Upvotes, p.Downvotes = t.Upvotes, t.Downvotes
	r.tallies = append(r.tallies, t)
	return nil
}

type voteKey struct{ user, place string }

type fakeVoteRepo struct {
	votes map[voteKey]*model.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: map[voteKey]*model.Vote{}}
}

func (r *fakeVoteRepo) Upsert(_ context.Context, v *model.Vote) error {
	k := voteKey{v.UserID, v.PlaceID}
	if existing, ok := r.votes[k]; ok {
		existing.Vote = v.Vote
		v.ID = existing.ID
		return nil
	}
	cp := *v
	r.votes[k] = &cp
	return nil
}

func (r *fakeVoteRepo) Delete(_ context.Context, userID, placeID string) error {
	delete(r.votes, voteKey{userID, placeID})
	return nil
}

func (r *fakeVoteRepo) FindByUserAndPlace(_ context.Context, userID, placeID string) (*model.Vote, error) {
	v, ok := r.votes[voteKey{userID, placeID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVoteRepo) TallyForPlace(_ context.Context, placeID string) (model.VoteTally, error) {
	t := model.VoteTally{PlaceID: placeID}
	for k, v := range r.votes {
		if k.place != placeID {
			continue
		}
		if v.Vote {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	return t, nil
}

type fakeVerifier struct {
	claims map[string]*security.IdentityClaims
}

func (f *fakeVerifier) Verify(_ context.Context, assertion string) (*security.IdentityClaims, error) {
	c, ok := f.claims[assertion]
	if !ok {
		return nil, common.ErrInvalidIdentityToken
	}
	cp := *c
	return &cp, nil
}

type fakeQueue struct {
	ids []string
	err error
}

func (q *fakeQueue) Enqueue(_ context.Context, placeID string) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, placeID)
	return nil
}

var errStorageDown = errors.New("storage unreachable")
