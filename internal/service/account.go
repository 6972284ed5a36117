package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
	"github.com/Its-SakshamR/Bus-Reservation/internal/utils"
)

const maxUsernameLen = 64

// AccountService registers and authenticates users.  Passwords are hashed
// here with bcrypt; the store only ever sees the hash.
type AccountService struct {
	users     *repository.UserRepo
	cost      int
	dummyHash string

	// operatorSignup lets the public Register create OPERATOR accounts.
	operatorSignup bool
	log            *zap.Logger
}

// NewAccountService returns an AccountService hashing with the given bcrypt
// cost.  Unless operatorSignup is set, only CreateUser can make operators.
func NewAccountService(users *repository.UserRepo, cost int, operatorSignup bool, log *zap.Logger) (*AccountService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the username is unknown, so both failure paths
	// cost one bcrypt comparison.
	dummy, err := utils.HashPassword("bus-reservation-dummy", cost)
	if err != nil {
		return nil, err
	}
	return &AccountService{
		users:          users,
		cost:           cost,
		dummyHash:      dummy,
		operatorSignup: operatorSignup,
		log:            log.Named("account"),
	}, nil
}

// Register is public sign-up.  It creates a user and returns its id; role
// may be empty, meaning PASSENGER.  Asking for OPERATOR fails with
// ErrOperatorSignupClosed unless operator sign-up is enabled.
func (a *AccountService) Register(ctx context.Context, username, password, role string) (uint64, error) {
	if normalizeRole(role) == model.RoleOperator && !a.operatorSignup {
		return 0, ErrOperatorSignupClosed
	}
	return a.CreateUser(ctx, username, password, role)
}

// CreateUser creates a user with any role.  It is for callers that are
// already operators.  Usernames are trimmed and unique regardless of case.
func (a *AccountService) CreateUser(ctx context.Context, username, password, role string) (uint64, error) {
	username = strings.TrimSpace(username)
	if !validUsername(username) || password == "" || len(password) > utils.MaxPasswordBytes {
		return 0, ErrInvalidInput
	}
	switch role = normalizeRole(role); role {
	case "":
		role = model.RolePassenger
	case model.RolePassenger, model.RoleOperator:
	default:
		return 0, ErrInvalidInput
	}

	hash, err := utils.HashPassword(password, a.cost)
	if err != nil {
		return 0, err
	}
	id, err := a.users.Create(ctx, username, hash, role)
	if err != nil {
		return 0, storeErr(err)
	}
	a.log.Info("user registered", zap.Uint64("user_id", id), zap.String("role", role))
	return id, nil
}

// Authenticate returns the user when username and password match.  An
// unknown username and a wrong password both yield ErrInvalidCredentials.
func (a *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := a.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		utils.VerifyPassword(a.dummyHash, password)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, storeErr(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if utils.NeedsRehash(u.PasswordHash, a.cost) {
		a.rehash(ctx, u, password)
	}
	return u, nil
}

// rehash upgrades a hash made at an old cost.  Failure only costs another
// rehash on the next login.
func (a *AccountService) rehash(ctx context.Context, u *model.User, password string) {
	hash, err := utils.HashPassword(password, a.cost)
	if err == nil {
		err = a.users.UpdatePasswordHash(ctx, u.ID, hash)
	}
	if err != nil {
		a.log.Warn("password rehash failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return
	}
	u.PasswordHash = hash
}

// User loads a user by id.
func (a *AccountService) User(ctx context.Context, id uint64) (*model.User, error) {
	u, err := a.users.GetByID(ctx, id)
	return u, storeErr(err)
}

func normalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

func validUsername(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > maxUsernameLen {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}
