package auth_test

import (
	"context"
	"testing"

	"github.com/Yasserbhb/BeeGuardAI/auth"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/store"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEmail    = "ada@lac.fr"
	testPassword = "password123"
	testOrgName  = "Rucher du Lac"
)

// testFixture holds all test dependencies
type testFixture struct {
	ctx      context.Context
	store    *store.Store
	sessions *sessions.InMemoryStore
	service  *auth.AccountService
}

func fastHash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(ctx, db))

	s := store.New(db)
	ss := sessions.NewInMemoryStore()
	service, err := auth.NewAccountService(auth.Repos{
		Users:    s.Users(),
		Orgs:     s.Orgs(),
		Creator:  s,
		Sessions: ss,
	}, auth.WithPasswordHasher(fastHash))
	require.NoError(t, err)

	return &testFixture{ctx: ctx, store: s, sessions: ss, service: service}
}

func (f *testFixture) register(t *testing.T, email, orgName string) *auth.LoginResult {
	t.Helper()
	res, err := f.service.Register(f.ctx, auth.RegisterParameters{
		Email:    email,
		Password: testPassword,
		OrgName:  orgName,
	})
	require.NoError(t, err)
	return res
}

func TestNewAccountService(t *testing.T) {
	_, err := auth.NewAccountService(auth.Repos{})
	require.Error(t, err)
}

func TestAccountService_Register(t *testing.T) {
	f := setupTestFixture(t)

	res, err := f.service.Register(f.ctx, auth.RegisterParameters{
		Email:     "  Ada@Lac.FR ",
		Password:  testPassword,
		FirstName: "Ada",
		OrgName:   testOrgName,
		OrgType:   "community",
	})
	require.NoError(t, err)
	require.Len(t, res.Token, 64)
	require.Equal(t, testEmail, res.User.Email)
	require.Equal(t, users.RoleAdmin, res.User.Role)
	require.NotZero(t, res.User.OrgID)

	session, ok := f.sessions.Verify(res.Token)
	require.True(t, ok)
	require.Equal(t, res.User.ID, session.UserID)
	require.Equal(t, users.RoleAdmin, session.UserRole)
	require.Equal(t, res.User.OrgID, session.OrgID)

	t.Run("email taken", func(t *testing.T) {
		_, err := f.service.Register(f.ctx, auth.RegisterParameters{Email: testEmail, Password: testPassword, OrgName: "Other"})
		require.ErrorIs(t, err, auth.EmailTakenErr)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("organisation name taken", func(t *testing.T) {
		_, err := f.service.Register(f.ctx, auth.RegisterParameters{Email: "new@lac.fr", Password: testPassword, OrgName: testOrgName})
		require.ErrorIs(t, err, auth.OrgNameTakenErr)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			params auth.RegisterParameters
		}{
			{"missing email", auth.RegisterParameters{Password: testPassword, OrgName: "X"}},
			{"bad email", auth.RegisterParameters{Email: "nope", Password: testPassword, OrgName: "X"}},
			{"weak password", auth.RegisterParameters{Email: "x@y.z", Password: "short", OrgName: "X"}},
			{"missing organisation", auth.RegisterParameters{Email: "x@y.z", Password: testPassword}},
			{"bad organisation type", auth.RegisterParameters{Email: "x@y.z", Password: testPassword, OrgName: "X", OrgType: "farm"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.service.Register(f.ctx, tt.params)
				require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
				_, ok := apperrors.PublicMessage(err)
				require.True(t, ok)
			})
		}
	})
}

// racingCreator registers a competing organisation right before delegating, as a concurrent
// sign up that passed the same availability checks would
type racingCreator struct {
	auth.OrgCreator
	store    *store.Store
	email    string
	orgName  string
	conflict bool
}

func (c *racingCreator) CreateOrgWithAdmin(ctx context.Context, org *orgs.Organisation, admin *users.User) error {
	if !c.conflict {
		c.conflict = true
		rival := &orgs.Organisation{Name: c.orgName, Type: orgs.TypeBeekeeper}
		if err := c.store.CreateOrgWithAdmin(ctx, rival, &users.User{Email: c.email, PasswordHash: "x", Role: users.RoleAdmin}); err != nil {
			return err
		}
	}
	return c.OrgCreator.CreateOrgWithAdmin(ctx, org, admin)
}

func TestAccountService_RegisterRace(t *testing.T) {
	tests := []struct {
		name      string
		rivalOrg  string
		rivalUser string
		want      error
	}{
		{"organisation name", testOrgName, "rival@lac.fr", auth.OrgNameTakenErr},
		{"email", "Rival Apiary", testEmail, auth.EmailTakenErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			service, err := auth.NewAccountService(auth.Repos{
				Users:    f.store.Users(),
				Orgs:     f.store.Orgs(),
				Creator:  &racingCreator{OrgCreator: f.store, store: f.store, email: tt.rivalUser, orgName: tt.rivalOrg},
				Sessions: f.sessions,
			}, auth.WithPasswordHasher(fastHash))
			require.NoError(t, err)

			_, err = service.Register(f.ctx, auth.RegisterParameters{Email: testEmail, Password: testPassword, OrgName: testOrgName})
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, apperrors.ErrConflict)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, testEmail, testOrgName)

	res, err := f.service.Login(f.ctx, "ADA@lac.fr", testPassword)
	require.NoError(t, err)
	_, ok := f.sessions.Verify(res.Token)
	require.True(t, ok)

	_, err = f.service.Login(f.ctx, testEmail, "wrong-password1")
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)

	_, err = f.service.Login(f.ctx, "ghost@lac.fr", testPassword)
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAccountService_Logout(t *testing.T) {
	f := setupTestFixture(t)
	res := f.register(t, testEmail, testOrgName)

	f.service.Logout(res.Token)
	_, ok := f.sessions.Verify(res.Token)
	require.False(t, ok)

	// Unknown and empty tokens are ignored
	f.service.Logout(res.Token)
	f.service.Logout("")
}

func TestAccountService_CreateUserAndChangeRole(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.register(t, testEmail, testOrgName)
	actor, _ := f.sessions.Verify(admin.Token)

	created, err := f.service.CreateUser(f.ctx, actor, auth.NewUserParameters{Email: "bob@lac.fr", Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, users.RoleObserver, created.Role)
	require.Equal(t, actor.OrgID, created.OrgID)

	_, err = f.service.CreateUser(f.ctx, actor, auth.NewUserParameters{Email: "bob@lac.fr", Password: testPassword})
	require.ErrorIs(t, err, auth.EmailTakenErr)

	_, err = f.service.CreateUser(f.ctx, actor, auth.NewUserParameters{Email: "eve@lac.fr", Password: testPassword, Role: "owner"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	list, err := f.service.ListUsers(f.ctx, actor.OrgID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	t.Run("role change revokes the target's sessions", func(t *testing.T) {
		bob, err := f.service.Login(f.ctx, "bob@lac.fr", testPassword)
		require.NoError(t, err)

		updated, err := f.service.ChangeRole(f.ctx, actor, created.ID, users.RoleManager)
		require.NoError(t, err)
		require.Equal(t, users.RoleManager, updated.Role)

		_, ok := f.sessions.Verify(bob.Token)
		require.False(t, ok)

		relogged, err := f.service.Login(f.ctx, "bob@lac.fr", testPassword)
		require.NoError(t, err)
		session, ok := f.sessions.Verify(relogged.Token)
		require.True(t, ok)
		require.Equal(t, users.RoleManager, session.UserRole)
	})

	t.Run("user of another organisation", func(t *testing.T) {
		other := f.register(t, "carol@lab.org", "Lab")
		_, err := f.service.ChangeRole(f.ctx, actor, other.User.ID, users.RoleObserver)
		require.ErrorIs(t, err, apperrors.ErrCrossTenant)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.service.ChangeRole(f.ctx, actor, 999, users.RoleObserver)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("admin cannot demote themselves", func(t *testing.T) {
		_, err := f.service.ChangeRole(f.ctx, actor, actor.UserID, users.RoleObserver)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("me reads fresh data", func(t *testing.T) {
		me, err := f.service.Me(f.ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, users.RoleManager, me.Role)
		require.Equal(t, testOrgName, me.OrgName)
	})
}
