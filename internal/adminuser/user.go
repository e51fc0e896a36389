package adminuser

import (
	"strings"
	"time"
)

const (
	// UserTypeAdmin is stored in users.user_type for administrators
	UserTypeAdmin = "admin"
	// AdminRoleID is the role every bootstrapped administrator gets
	AdminRoleID = 1
	// StatusActive marks an enabled account
	StatusActive = 1
)

// User maps a row of the application's users table
type User struct {
	ID              uint64 `gorm:"primaryKey"`
	FirstName       string
	LastName        *string
	Email           string `gorm:"uniqueIndex"`
	Password        string
	Phone           *string
	UserType        string
	RoleID          uint
	EmailVerifiedAt *time.Time
	Status          int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides gorm's pluralised default
func (User) TableName() string {
	return "users"
}

// DisplayName joins first and last name the way the account list shows it.
func (u *User) DisplayName() string {
	last := ""
	if u.LastName != nil {
		last = *u.LastName
	}

	return u.FirstName + " " + last
}

// SplitName splits on the first space. An empty remainder yields a nil last
// name so the column stays NULL.
func SplitName(name string) (string, *string) {
	parts := strings.SplitN(name, " ", 2)
	if len(parts) < 2 || parts[1] == "" {
		return parts[0], nil
	}

	return parts[0], &parts[1]
}
