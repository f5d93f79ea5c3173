// Package user holds the team directory and simulated sign-in.
package user

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// ErrNotFound is returned for an unknown user id or email.
var ErrNotFound = errors.New("user not found")

// Theme is the display preference of a user.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// DefaultRole is given to users who register by signing in.
const DefaultRole = "Analyst"

// User is a team member.
type User struct {
	ID              string `json:"id" yaml:"id" validate:"required"`
	Name            string `json:"name" yaml:"name" validate:"required"`
	Email           string `json:"email" yaml:"email" validate:"required,email"`
	Role            string `json:"role" yaml:"role"`
	Avatar          string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	ThemePreference Theme  `json:"themePreference" yaml:"themePreference" validate:"omitempty,oneof=light dark system"`
}

// Validate checks field constraints.
func (u *User) Validate() error {
	return util.ValidateStruct(u)
}

// Directory is the set of known users, in registration order.
type Directory struct {
	mu    sync.RWMutex
	users []User
	newID func() string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{newID: func() string { return "user-" + uuid.New().String()[:8] }}
}

// Load replaces the directory contents.
func (d *Directory) Load(users []User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = slices.Clone(users)
}

// List returns every user.
func (d *Directory) List() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.users)
}

// Get returns the user with id.
func (d *Directory) Get(id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
}

// Name returns the display name for id, or "Unknown".
func (d *Directory) Name(id string) string {
	if u, err := d.Get(id); err == nil {
		return u.Name
	}
	return "Unknown"
}

// FindByEmail matches email case-insensitively.
func (d *Directory) FindByEmail(email string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("email %s: %w", email, ErrNotFound)
}

// Resolve finds a user by id, email, or case-insensitive name.
func (d *Directory) Resolve(ref string) (User, error) {
	if u, err := d.Get(ref); err == nil {
		return u, nil
	}
	if u, err := d.FindByEmail(ref); err == nil {
		return u, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var matches []User
	for _, u := range d.users {
		first, _, _ := strings.Cut(strings.TrimSpace(u.Name), " ")
		if strings.EqualFold(u.Name, ref) || strings.EqualFold(first, ref) {
			matches = append(matches, u)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return User{}, fmt.Errorf("user %q is ambiguous (%d matches)", ref, len(matches))
	}
	return User{}, fmt.Errorf("user %q: %w", ref, ErrNotFound)
}

// SignIn returns the user with email, registering a new Analyst when none
// exists. An empty name falls back to the title-cased local part of email.
func (d *Directory) SignIn(name, email string) (u User, registered bool, err error) {
	if existing, err := d.FindByEmail(email); err == nil {
		return existing, false, nil
	}
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = NameFromEmail(email)
	}
	u = User{
		ID:              d.newID(),
		Name:            name,
		Email:           email,
		Role:            DefaultRole,
		ThemePreference: ThemeSystem,
	}
	if err := u.Validate(); err != nil {
		return User{}, false, fmt.Errorf("invalid user: %w", err)
	}
	d.mu.Lock()
	d.users = append(d.users, u)
	d.mu.Unlock()
	return u, true, nil
}

// NameFromEmail turns "jane.doe@corp.com" into "Jane Doe".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return cases.Title(language.English).String(strings.Join(strings.Fields(local), " "))
}

// Profile carries editable profile fields; nil fields are left unchanged.
type Profile struct {
	Name   *string
	Role   *string
	Avatar *string
	Theme  *Theme
}

// Update applies p to the user with id.
func (d *Directory) Update(id string, p Profile) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	u := d.users[i]
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Theme != nil {
		u.ThemePreference = *p.Theme
	}
	if err := u.Validate(); err != nil {
		return User{}, fmt.Errorf("invalid user: %w", err)
	}
	d.users[i] = u
	return u, nil
}
