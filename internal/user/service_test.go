package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users map[string]*User
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	if _, err := r.GetByEmail(context.Background(), u.Email); err == nil {
		return ErrEmailAlreadyUsed
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := r.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *fakeRepo) UpdateProfile(_ context.Context, id string, fullName *string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.FullName = fullName
	return nil
}

func (r *fakeRepo) SetAvatar(_ context.Context, id, fileID string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.AvatarFileID = &fileID
	return nil
}

func (r *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*User, int, error) {
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (r *fakeRepo) CountByRole(_ context.Context) (map[Role]int, error) {
	counts := make(map[Role]int)
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

// plainHasher keeps tests fast; bcrypt is exercised in production only.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func TestRegister(t *testing.T) {
	svc := NewService(newFakeRepo(), plainHasher{})
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Kid@Example.COM ", "supersecret", "Aiman", RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "kid@example.com", u.Email)
	assert.Equal(t, RoleStudent, u.Role)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.FullName)
	assert.Equal(t, "Aiman", *u.FullName)

	// Duplicate email, even with different casing.
	_, err = svc.Register(ctx, "KID@example.com", "supersecret", "", RoleStudent)
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), plainHasher{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "kid@example.com", "short", "", RoleStudent)
	assert.Error(t, err)

	_, err = svc.Register(ctx, "   ", "supersecret", "", RoleStudent)
	assert.Error(t, err)

	// Admins are created out of band, never through signup.
	_, err = svc.Register(ctx, "boss@example.com", "supersecret", "", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, plainHasher{})
	ctx := context.Background()

	u, err := svc.Register(ctx, "tutor@example.com", "supersecret", "Cikgu Tan", RoleTutor)
	require.NoError(t, err)

	got, err := svc.Login(ctx, "tutor@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotNil(t, repo.users[u.ID].LastLoginAt)

	_, err = svc.Login(ctx, "tutor@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, plainHasher{})
	ctx := context.Background()

	u, err := svc.Register(ctx, "banned@example.com", "supersecret", "", RoleStudent)
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, u.ID, false))

	_, err = svc.Login(ctx, "banned@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInactiveUser)
}
