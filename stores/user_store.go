package stores

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photoshare/models"
)

// IUserStore is the identity capability the router is constructed with.
// Absent users are reported as (nil, nil), never as an error.
type IUserStore interface {
	LookupByID(ctx context.Context, id uint) (*models.User, error)
	LookupByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// UserStore keeps user credentials in the users table.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) LookupByID(ctx context.Context, id uint) (*models.User, error) {
	const op = "UserStore.LookupByID"
	user := models.User{ID: id}
	if result := s.db.WithContext(ctx).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("[%s] Fail to find user, err=%w", op, result.Error)
	}
	return &user, nil
}

func (s *UserStore) LookupByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "UserStore.LookupByUsername"
	var user models.User
	if result := s.db.WithContext(ctx).Where("username = ?", username).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("[%s] Fail to find user, err=%w", op, result.Error)
	}
	return &user, nil
}

// Create inserts a user with a bcrypt hash of password. Callers check for an
// existing username first; the unique index is the backstop for the race two
// concurrent registrations can still run into.
func (s *UserStore) Create(ctx context.Context, username, password string) (*models.User, error) {
	const op = "UserStore.Create"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to hash password, err=%w", op, err)
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if result := s.db.WithContext(ctx).Create(&user); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to create user, err=%w", op, result.Error)
	}
	return &user, nil
}

// Authenticate verifies username/password against the stored hash. Unknown
// user and wrong password are both reported as (nil, nil) so callers cannot
// tell them apart.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "UserStore.Authenticate"
	user, err := s.LookupByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to look up user, err=%w", op, err)
	}
	if user == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}
