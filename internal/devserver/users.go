// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/playground-tui/internal/apiclient"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrBadCredentials covers both an unknown user and a wrong password.
	ErrBadCredentials = errors.New("incorrect username, email, or password")
)

type account struct {
	user apiclient.User
	hash []byte
}

// Users is an in-memory account registry.
type Users struct {
	mu      sync.RWMutex
	cost    int
	nextID  int
	byName  map[string]*account
	byEmail map[string]*account
}

// NewUsers creates an empty registry hashing with the given bcrypt cost.
// A cost below bcrypt.MinCost uses bcrypt.DefaultCost.
func NewUsers(cost int) *Users {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Users{
		cost:    cost,
		nextID:  1,
		byName:  make(map[string]*account),
		byEmail: make(map[string]*account),
	}
}

// Register adds an account.
func (u *Users) Register(email, username, password string) (apiclient.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return apiclient.User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.byEmail[email]; ok && email != "" {
		return apiclient.User{}, ErrEmailTaken
	}
	if _, ok := u.byName[username]; ok {
		return apiclient.User{}, ErrUsernameTaken
	}

	acct := &account{
		user: apiclient.User{
			ID:       apiclient.UserID(strconv.Itoa(u.nextID)),
			Email:    email,
			Username: username,
		},
		hash: hash,
	}
	u.nextID++
	u.byName[username] = acct
	if email != "" {
		u.byEmail[email] = acct
	}
	return acct.user, nil
}

// Authenticate checks a username (or email) and password.
func (u *Users) Authenticate(login, password string) (apiclient.User, error) {
	login = strings.TrimSpace(login)

	u.mu.RLock()
	acct, ok := u.byName[login]
	if !ok {
		acct, ok = u.byEmail[strings.ToLower(login)]
	}
	u.mu.RUnlock()

	if !ok {
		return apiclient.User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return apiclient.User{}, ErrBadCredentials
	}
	return acct.user, nil
}

// Lookup returns the account for username.
func (u *Users) Lookup(username string) (apiclient.User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	acct, ok := u.byName[username]
	if !ok {
		return apiclient.User{}, false
	}
	return acct.user, true
}
