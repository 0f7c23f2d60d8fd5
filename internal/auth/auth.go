// Package auth holds the fixed set of accounts allowed to call the API.
//
// Accounts are built once at process start and never change afterwards,
// so a Store is safe for concurrent use without locking.
package auth

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Role labels granted to accounts.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// BcryptCost is the work factor used when hashing the built-in passwords.
const BcryptCost = bcrypt.DefaultCost

// Account is one provisioned user.
type Account struct {
	Username     string
	PasswordHash []byte
	Roles        []string
}

// HasRole reports whether the account was granted role.
func (a Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Store maps usernames to accounts.
type Store struct {
	accounts map[string]Account
}

// Credentials is a plaintext username/password pair used to seed a Store.
type Credentials struct {
	Username string
	Password string
	Roles    []string
}

// DefaultCredentials are the two built-in accounts: an ordinary user and an
// administrator holding both roles.
var DefaultCredentials = []Credentials{
	{Username: "user", Password: "password", Roles: []string{RoleUser}},
	{Username: "admin", Password: "admin", Roles: []string{RoleAdmin, RoleUser}},
}

// NewStore hashes every password with bcrypt and returns the read-only store.
func NewStore(creds []Credentials, cost int) (*Store, error) {
	accounts := make(map[string]Account, len(creds))
	for _, c := range creds {
		if _, dup := accounts[c.Username]; dup {
			return nil, errors.Errorf("duplicate account %q", c.Username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, errors.Wrapf(err, "hash password for %q", c.Username)
		}

		accounts[c.Username] = Account{
			Username:     c.Username,
			PasswordHash: hash,
			Roles:        append([]string(nil), c.Roles...),
		}
	}

	return &Store{accounts: accounts}, nil
}

// NewDefaultStore builds the store holding DefaultCredentials.
func NewDefaultStore() (*Store, error) {
	return NewStore(DefaultCredentials, BcryptCost)
}

// Authenticate returns the account when username exists and password
// matches its hash.
func (s *Store) Authenticate(username, password string) (Account, bool) {
	account, ok := s.accounts[username]
	if !ok {
		return Account{}, false
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return Account{}, false
	}
	return account, true
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated account.
func WithPrincipal(ctx context.Context, account Account) context.Context {
	return context.WithValue(ctx, principalKey{}, account)
}

// PrincipalFrom returns the account stored by WithPrincipal, if any.
func PrincipalFrom(ctx context.Context) (Account, bool) {
	account, ok := ctx.Value(principalKey{}).(Account)
	return account, ok
}
