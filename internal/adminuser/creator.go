package adminuser

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Input is what the operator supplied
type Input struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Creator inserts administrator accounts
type Creator struct {
	store Store
	now   func() time.Time
	cost  int
}

// Option configures a Creator
type Option func(*Creator)

// WithNow replaces the clock used for email_verified_at
func WithNow(now func() time.Time) Option {
	return func(c *Creator) {
		c.now = now
	}
}

// WithHashCost sets the bcrypt cost
func WithHashCost(cost int) Option {
	return func(c *Creator) {
		c.cost = cost
	}
}

// NewCreator returns a Creator writing to store
func NewCreator(store Store, opts ...Option) *Creator {
	c := &Creator{
		store: store,
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Create hashes the password and inserts a verified, active admin. Input is
// expected to be validated already.
func (c *Creator) Create(ctx context.Context, in Input) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	first, last := SplitName(in.Name)
	verifiedAt := c.now()

	user := &User{
		FirstName:       first,
		LastName:        last,
		Email:           in.Email,
		Password:        string(hash),
		UserType:        UserTypeAdmin,
		RoleID:          AdminRoleID,
		EmailVerifiedAt: &verifiedAt,
		Status:          StatusActive,
	}

	if in.Phone != "" {
		phone := in.Phone
		user.Phone = &phone
	}

	if err := c.store.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
