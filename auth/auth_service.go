// Package auth implements account registration, login and role administration on top of the
// session store.
package auth

import (
	"context"

	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the AccountService
type Repos struct {
	Users    users.Repo     // Repository for user data
	Orgs     orgs.Repo      // Repository for organisation data
	Creator  OrgCreator     // Creates an organisation and its admin in one step
	Sessions sessions.Store // Live login sessions
}

// LoginResult is returned by Register and Login
type LoginResult struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// AccountService handles sign up, login and user administration within an organisation.
type AccountService struct {
	repos        Repos
	hashPassword func(string) (string, error)
	dummyHash    string
}

// AccountServiceOption defines a function type to modify the AccountService instance.
type AccountServiceOption func(*AccountService)

// WithPasswordHasher replaces the bcrypt hasher (primarily for testing)
func WithPasswordHasher(hasher func(string) (string, error)) AccountServiceOption {
	return func(as *AccountService) {
		as.hashPassword = hasher
	}
}

// NewAccountService initializes a new AccountService with required dependencies.
func NewAccountService(repos Repos, options ...AccountServiceOption) (*AccountService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewAccountService] Users repo is required")
	}
	if repos.Orgs == nil {
		return nil, errors.New("[NewAccountService] Orgs repo is required")
	}
	if repos.Creator == nil {
		return nil, errors.New("[NewAccountService] Creator is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewAccountService] Sessions store is required")
	}

	as := &AccountService{
		repos:        repos,
		hashPassword: users.HashPassword,
	}
	for _, opt := range options {
		opt(as)
	}

	// Compared against when the email is unknown so both login failures cost the same
	dummy, err := as.hashPassword("not-a-real-password-0")
	if err != nil {
		return nil, errors.Wrap(err, "[NewAccountService] hashPassword")
	}
	as.dummyHash = dummy

	return as, nil
}

// Register creates a new organisation with the caller as its admin and logs them in.
func (as *AccountService) Register(ctx context.Context, params RegisterParameters) (*LoginResult, error) {
	params.Normalise()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	orgType, _ := orgs.ParseType(params.OrgType)

	if _, err := as.repos.Users.GetByEmail(ctx, params.Email); err == nil {
		return nil, EmailTakenErr
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[AccountService.Register] GetByEmail")
	}
	if _, err := as.repos.Orgs.GetByName(ctx, params.OrgName); err == nil {
		return nil, OrgNameTakenErr
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[AccountService.Register] GetByName")
	}

	hash, err := as.hashPassword(params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.Register] hashPassword")
	}

	org := &orgs.Organisation{Name: params.OrgName, Type: orgType, Address: params.Address}
	user := &users.User{
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
		Role:         users.RoleAdmin,
	}
	if err := as.repos.Creator.CreateOrgWithAdmin(ctx, org, user); err != nil {
		// Lost a race with a concurrent registration
		if apperrors.Is(err, orgs.ErrNameTaken) {
			return nil, OrgNameTakenErr
		}
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, EmailTakenErr
		}
		return nil, errors.Wrap(err, "[AccountService.Register] CreateOrgWithAdmin")
	}

	log.Info().Int64("user_id", user.ID).Int64("org_id", org.ID).Str("org", org.Name).Msg("organisation registered")
	return as.startSession(user)
}

// Login checks the credentials and issues a session token.
func (as *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := as.repos.Users.GetByEmail(ctx, users.NormaliseEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			users.CheckPasswordHash(password, as.dummyHash)
			return nil, InvalidCredentialsErr
		}
		return nil, errors.Wrap(err, "[AccountService.Login] GetByEmail")
	}

	if !user.CheckPassword(password) {
		return nil, InvalidCredentialsErr
	}
	return as.startSession(user)
}

// Logout revokes the session token. Unknown tokens are ignored.
func (as *AccountService) Logout(token string) {
	if token != "" {
		as.repos.Sessions.Revoke(token)
	}
}

// Me re-reads the session's user so profile changes since login are visible.
func (as *AccountService) Me(ctx context.Context, userID int64) (*users.User, error) {
	user, err := as.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.Me] GetByID")
	}
	return user, nil
}

func (as *AccountService) ListUsers(ctx context.Context, orgID int64) ([]*users.User, error) {
	list, err := as.repos.Users.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.ListUsers] ListByOrg")
	}
	return list, nil
}

// CreateUser adds a user to the actor's organisation. The role defaults to observer.
func (as *AccountService) CreateUser(ctx context.Context, actor sessions.Session, params NewUserParameters) (*users.User, error) {
	params.Normalise()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	role := users.RoleObserver
	if params.Role != "" {
		role, _ = users.ParseRole(params.Role)
	}

	hash, err := as.hashPassword(params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.CreateUser] hashPassword")
	}

	user := &users.User{
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
		Role:         role,
		OrgID:        actor.OrgID,
	}
	if err := as.repos.Users.Create(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, EmailTakenErr
		}
		return nil, errors.Wrap(err, "[AccountService.CreateUser] Create")
	}

	log.Info().Int64("user_id", user.ID).Int64("by", actor.UserID).Str("role", role.String()).Msg("user created")
	return user, nil
}

// ChangeRole sets the role of a user of the actor's organisation and revokes the user's
// sessions, so the next login carries the new role.
func (as *AccountService) ChangeRole(ctx context.Context, actor sessions.Session, userID int64, role users.Role) (*users.User, error) {
	if !role.Valid() {
		return nil, apperrors.Invalidf("Role must be admin, manager or observer")
	}

	user, err := as.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.ChangeRole] GetByID")
	}
	if user.OrgID != actor.OrgID {
		return nil, UserNotInOrgErr
	}
	if user.ID == actor.UserID && role != users.RoleAdmin {
		return nil, apperrors.Invalidf("Admins cannot remove their own admin role")
	}

	if err := as.repos.Users.UpdateRole(ctx, userID, role); err != nil {
		return nil, errors.Wrap(err, "[AccountService.ChangeRole] UpdateRole")
	}
	user.Role = role

	revoked := as.repos.Sessions.RevokeUser(userID)
	log.Info().Int64("user_id", userID).Int64("by", actor.UserID).Str("role", role.String()).Int("sessions_revoked", revoked).Msg("role changed")
	return user, nil
}

func (as *AccountService) startSession(user *users.User) (*LoginResult, error) {
	token, err := as.repos.Sessions.Issue(user.ID, user.Email, user.Role, user.OrgID)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService] Issue")
	}
	return &LoginResult{Token: token, User: user}, nil
}
