package app

import (
	"context"
	"fmt"

	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/notify"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
)

// LoginResult describes a sign-in.
type LoginResult struct {
	User       user.User `json:"user"`
	Registered bool      `json:"registered"`
}

// Login signs in with email, registering a new analyst when the address is
// unknown. name is only used for new users.
func (a *App) Login(ctx context.Context, name, email string) (LoginResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, registered, err := a.users.SignIn(name, email)
	if err != nil {
		return LoginResult{}, err
	}
	a.currentUserID = u.ID
	if registered {
		a.log.Record(audit.New(u.ID, audit.ActionRegister, "New user registered", audit.EntityUser, u.ID))
		a.notices.Push(fmt.Sprintf("Welcome to Nexus, %s!", u.Name), notify.Success)
	} else {
		a.log.Record(audit.New(u.ID, audit.ActionLogin, "User logged in", audit.EntityUser, u.ID))
		a.notices.Push(fmt.Sprintf("Welcome back, %s!", u.Name), notify.Success)
	}
	if err := a.persist(ctx); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u, Registered: registered}, nil
}

// Switch makes ref (an id, email or name) the current user without a
// password, the way a developer switches accounts while testing.
func (a *App) Switch(ctx context.Context, ref string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.users.Resolve(ref)
	if err != nil {
		return user.User{}, err
	}
	a.currentUserID = u.ID
	a.log.Record(audit.New(u.ID, audit.ActionLogin, "Switched to user "+u.Name, audit.EntityUser, u.ID))
	if err := a.persist(ctx); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Logout ends the session. It is a no-op when nobody is signed in.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentUserID == "" {
		return nil
	}
	a.currentUserID = ""
	return a.persist(ctx)
}

// CurrentUser returns the signed-in user.
func (a *App) CurrentUser() (user.User, error) {
	a.mu.Lock()
	id := a.currentUserID
	a.mu.Unlock()
	if id == "" {
		return user.User{}, ErrNotLoggedIn
	}
	return a.users.Get(id)
}

// Users lists the team in registration order.
func (a *App) Users() []user.User {
	return a.users.List()
}

// UpdateProfile edits the current user's profile.
func (a *App) UpdateProfile(ctx context.Context, p user.Profile) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.actor()
	if err != nil {
		return user.User{}, err
	}
	u, err := a.users.Update(actor, p)
	if err != nil {
		return user.User{}, err
	}
	a.log.Record(audit.New(actor, audit.ActionUpdateProfile, "Updated profile settings", audit.EntityUser, actor))
	a.notices.Push("Profile updated.", notify.Info)
	if err := a.persist(ctx); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// ResolveUser finds a user by id, email or name.
func (a *App) ResolveUser(ref string) (user.User, error) {
	return a.users.Resolve(ref)
}
