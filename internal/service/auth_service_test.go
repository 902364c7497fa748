package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

type stubUserRepo struct {
	nextID  int
	byEmail map[string]*model.User
	byID    map[int]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*model.User{}, byID: map[int]*model.User{}}
}

func (r *stubUserRepo) Create(u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) GetByEmail(email string) (*model.User, error) {
	return r.byEmail[email], nil
}

func (r *stubUserRepo) GetByID(id int) (*model.User, error) {
	return r.byID[id], nil
}

func (r *stubUserRepo) Update(u *model.User) error { return nil }

type stubOrgRepo struct {
	nextID int
	subs   []*model.Subscription
}

func (r *stubOrgRepo) Create(o *model.Organization) error {
	r.nextID++
	o.ID = r.nextID
	return nil
}

func (r *stubOrgRepo) GetByID(id int) (*model.Organization, error) {
	return &model.Organization{ID: id}, nil
}

func (r *stubOrgRepo) CreateSubscription(s *model.Subscription) error {
	r.subs = append(r.subs, s)
	return nil
}

func (r *stubOrgRepo) GetSubscription(orgID int) (*model.Subscription, error) { return nil, nil }

func newAuthService() (*service.AuthService, *stubUserRepo, *stubOrgRepo) {
	users := newStubUserRepo()
	orgs := &stubOrgRepo{}
	return &service.AuthService{
		UserRepo:  users,
		OrgRepo:   orgs,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, users, orgs
}

func TestSignupCreatesOrgUserAndSubscription(t *testing.T) {
	svc, _, orgs := newAuthService()

	user, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, 1, user.OrganizationID)
	assert.NotEqual(t, "s3cret", user.HashedPassword, "password must be hashed")
	require.Len(t, orgs.subs, 1)
	assert.Equal(t, "standard", orgs.subs[0].PlanType)
	assert.True(t, orgs.subs[0].IsActive)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	_, err = svc.Signup("alice@example.com", "other", "Alice Again", "Other Org")
	assert.ErrorIs(t, err, appErrors.ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, _ := newAuthService()

	user, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	token, err := svc.Login("alice@example.com", "s3cret")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, "alice@example.com", claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newAuthService()
	_, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	token, err := svc.Login("alice@example.com", "s3cret")
	require.NoError(t, err)

	other := &service.AuthService{JWTSecret: "different-secret", TokenTTL: time.Hour}
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestUpdateProfileIgnoresShortPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	user, err := svc.Signup("alice@example.com", "s3cret", "Alice", "Acme")
	require.NoError(t, err)

	before := user.HashedPassword
	short := "ab"
	require.NoError(t, svc.UpdateProfile(user, nil, &short))
	assert.Equal(t, before, user.HashedPassword)

	long := "new-password"
	require.NoError(t, svc.UpdateProfile(user, nil, &long))
	assert.NotEqual(t, before, user.HashedPassword)
}
