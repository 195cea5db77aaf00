// Package identity selects which of the two fixed parties is acting.
//
// The passcode check mirrors the original two-user setup and only picks a
// display identity. It is not authentication and must not be treated as a
// security boundary.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Role is one of the two fixed parties.
type Role string

const (
	RoleProvider Role = "provider"
	RoleClient   Role = "client"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleProvider:
		return RoleProvider, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownRole, s)
	}
}

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrWrongPasscode = errors.New("wrong passcode")
)

// Identity is the acting party. Email is only an attribution tag sent to
// the remote endpoint.
type Identity struct {
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsProvider reports whether the identity is the service provider.
func (i Identity) IsProvider() bool { return i.Role == RoleProvider }

// Account is an Identity with its selector passcode.
type Account struct {
	Identity
	Passcode string
}

// Directory holds the two configured accounts.
type Directory struct {
	provider Account
	client   Account
}

// NewDirectory builds a Directory, forcing the roles onto the accounts.
func NewDirectory(provider, client Account) *Directory {
	provider.Role = RoleProvider
	client.Role = RoleClient
	return &Directory{provider: provider, client: client}
}

// DefaultAccounts returns the stock provider and client accounts.
func DefaultAccounts() (provider, client Account) {
	provider = Account{Identity: Identity{Role: RoleProvider, Name: "Sanjaya", Email: "sanjaya@designer.com"}, Passcode: "san1980"}
	client = Account{Identity: Identity{Role: RoleClient, Name: "Ravi", Email: "ravi2025@client.com"}, Passcode: "ravi2025"}
	return provider, client
}

// DefaultDirectory returns a Directory over the stock accounts.
func DefaultDirectory() *Directory {
	return NewDirectory(DefaultAccounts())
}

// Lookup returns the identity for role without checking a passcode.
func (d *Directory) Lookup(role Role) (Identity, error) {
	switch role {
	case RoleProvider:
		return d.provider.Identity, nil
	case RoleClient:
		return d.client.Identity, nil
	default:
		return Identity{}, ErrUnknownRole
	}
}

// Authenticate selects the identity for role when passcode matches.
func (d *Directory) Authenticate(role Role, passcode string) (Identity, error) {
	var account Account
	switch role {
	case RoleProvider:
		account = d.provider
	case RoleClient:
		account = d.client
	default:
		return Identity{}, ErrUnknownRole
	}
	if passcode != account.Passcode {
		return Identity{}, ErrWrongPasscode
	}
	return account.Identity, nil
}
