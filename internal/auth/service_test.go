package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

type memoryRepo struct {
	nextID int64
	users  map[int64]*User
	houses map[int64]int64 // user id -> house id
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, users: map[int64]*User{}, houses: map[int64]int64{}}
}

func (m *memoryRepo) InsertUser(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicateUser
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) ResolveActor(_ context.Context, userID int64) (*shared.Actor, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &shared.Actor{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		HouseID:  m.houses[u.ID],
		Role:     shared.RoleAdmin,
	}, nil
}

type memoryHouses struct {
	repo        *memoryRepo
	accepted    []uuid.UUID
	validateErr error
}

func (m *memoryHouses) SetupDefault(_ context.Context, userID int64, _ string) error {
	m.repo.houses[userID] = userID + 100
	return nil
}

func (m *memoryHouses) ValidateInvitation(_ context.Context, _ string, _ uuid.UUID) error {
	return m.validateErr
}

func (m *memoryHouses) AcceptInvitation(_ context.Context, userID int64, _ string, inviteID uuid.UUID) error {
	m.accepted = append(m.accepted, inviteID)
	m.repo.houses[userID] = 42
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, *memoryHouses, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemoryRepo()
	houses := &memoryHouses{repo: repo}
	svc := NewService(repo, NewTokenStore(client, time.Hour), houses, nil)
	return svc, repo, houses, mr
}

func TestRegisterCreatesDefaultHouse(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "bruna",
		Email:    " Bruna@Mail.Test ",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "bruna", u.Username)
	assert.Equal(t, "bruna@mail.test", u.Email)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
	assert.NotZero(t, repo.houses[u.ID])
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "other@mail.test", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterWithInvitationJoinsHouse(t *testing.T) {
	svc, repo, houses, _ := newTestService(t)
	invite := uuid.New()

	u, err := svc.Register(context.Background(), RegisterInput{
		Username:    "nova",
		Email:       "nova@mail.test",
		Password:    "hunter2hunter2",
		InviteToken: invite.String(),
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{invite}, houses.accepted)
	assert.Equal(t, int64(42), repo.houses[u.ID])
}

func TestRegisterRejectedInvitationLeavesNoUser(t *testing.T) {
	svc, repo, houses, _ := newTestService(t)
	houses.validateErr = ErrInvalidInvite

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:    "nova",
		Email:       "nova@mail.test",
		Password:    "hunter2hunter2",
		InviteToken: uuid.NewString(),
	})
	require.ErrorIs(t, err, ErrInvalidInvite)
	// The token is checked before the insert, so the failed signup leaves
	// no user behind.
	assert.Empty(t, repo.users)
	assert.Empty(t, houses.accepted)
}

func TestRegisterRejectsMalformedInvite(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:    "nova",
		Email:       "nova@mail.test",
		Password:    "hunter2hunter2",
		InviteToken: "not-a-uuid",
	})
	assert.ErrorIs(t, err, ErrInvalidInvite)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	u, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "bruna", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, actor.UserID)
	assert.Equal(t, "bruna", actor.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "bruna", "wrongwrongwrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "bruna", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenExpires(t *testing.T) {
	svc, _, _, mr := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "bruna", "hunter2hunter2")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMiddlewareInjectsActor(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bruna", Email: "bruna@mail.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "bruna", "hunter2hunter2")
	require.NoError(t, err)

	var seen *shared.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.ActorFromContext(r.Context())
	})
	handler := Middleware(svc)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "bruna", seen.Username)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	})
	handler := Middleware(svc)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
