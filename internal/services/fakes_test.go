package services

import (
	"context"
	"sync"
	"time"

	"github.com/fathima-sithara/taskhub/internal/models"
	"github.com/fathima-sithara/taskhub/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository that mirrors the unique email
// index of the real collection.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id primitive.ObjectID) error {
	return r.mutate(id, func(u *models.User) { u.IsEmailVerified = true })
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return r.mutate(id, func(u *models.User) { u.PasswordHash = hash })
}

func (r *fakeUserRepo) SetLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	return r.mutate(id, func(u *models.User) { u.LastLogin = &at })
}

func (r *fakeUserRepo) mutate(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) delete(id primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// fakeVerificationRepo mirrors the unique (user_id, purpose) index of the
// real collection.
type fakeVerificationRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.Verification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[primitive.ObjectID]*models.Verification)}
}

func (r *fakeVerificationRepo) Create(_ context.Context, v *models.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.UserID == v.UserID && existing.Purpose == v.Purpose {
			return repository.ErrDuplicate
		}
	}
	v.ID = primitive.NewObjectID()
	v.CreatedAt = time.Now().UTC()
	cp := *v
	r.records[v.ID] = &cp
	return nil
}

func (r *fakeVerificationRepo) Find(_ context.Context, userID primitive.ObjectID, tokenStr string) (*models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.records {
		if v.UserID == userID && v.Token == tokenStr {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVerificationRepo) FindByUserAndPurpose(_ context.Context, userID primitive.ObjectID, purpose string) (*models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.records {
		if v.UserID == userID && v.Purpose == purpose {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVerificationRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *fakeVerificationRepo) DeleteByUserAndPurpose(_ context.Context, userID primitive.ObjectID, purpose string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.records {
		if v.UserID == userID && v.Purpose == purpose {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *fakeVerificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// expire rewinds the expiry of every record for the user so it reads as stale.
func (r *fakeVerificationRepo) expire(userID primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.records {
		if v.UserID == userID {
			v.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}
