package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

const (
	// maxUsernameLen bounds the base username before any numeric suffix.
	maxUsernameLen = 20
	// maxUsernameAttempts bounds the suffix search for a free username.
	maxUsernameAttempts = 1000
	// passwordLen is the length of generated owner passwords.
	passwordLen = 14
)

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%^&*"

// Provisioner creates owner accounts for newly imported camps.
type Provisioner struct {
	accounts repo.AccountRepo
	camps    repo.CampRepo
	password func() (string, error)
	hash     func(password string) (string, error)
}

// NewProvisioner constructs a Provisioner that stores bcrypt hashes.
func NewProvisioner(accounts repo.AccountRepo, camps repo.CampRepo) *Provisioner {
	return &Provisioner{
		accounts: accounts,
		camps:    camps,
		password: generatePassword,
		hash:     bcryptHash,
	}
}

// BaseUsername derives a login name from a camp name: accents folded, lowercase
// ASCII letters and digits only, at most 20 characters, "camp" when nothing
// is left.
func BaseUsername(campName string) string {
	var b strings.Builder
	for _, r := range domain.Slugify(campName) {
		if r < unicode.MaxASCII && r != '-' {
			b.WriteRune(r)
			if b.Len() == maxUsernameLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "camp"
	}
	return b.String()
}

// candidate returns the i-th username to try for base: base itself, then
// base1, base2, ...
func candidate(base string, i int) string {
	if i == 0 {
		return base
	}
	return base + strconv.Itoa(i)
}

// Plan picks the username an account for campName would get, without writing
// anything. taken holds usernames already claimed in the current run; the
// chosen name is added to it.
func (p *Provisioner) Plan(ctx context.Context, campName string, taken map[string]bool) (string, error) {
	base := BaseUsername(campName)
	for i := 0; i < maxUsernameAttempts; i++ {
		name := candidate(base, i)
		if taken[name] {
			continue
		}
		exists, err := p.accounts.UsernameExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("service.Provisioner.Plan: %w", err)
		}
		if !exists {
			taken[name] = true
			return name, nil
		}
	}
	return "", fmt.Errorf("service.Provisioner.Plan: no free username for %q: %w", base, domain.ErrProvisioning)
}

// Provision creates an owner account for a camp from its director details and
// links it to the camp. The returned credential carries the clear-text
// password, which exists nowhere else.
//
// When the account was created but a later step failed, Provision returns
// both the credential and the error.
//
// The store's username constraint is authoritative: a create that loses a
// race moves on to the next suffix.
func (p *Provisioner) Provision(ctx context.Context, campID int64, row domain.RawRow, taken map[string]bool) (domain.Credential, error) {
	password, err := p.password()
	if err != nil {
		return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: password: %w: %w", domain.ErrProvisioning, err)
	}
	hash, err := p.hash(password)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: hash: %w: %w", domain.ErrProvisioning, err)
	}

	email := strings.TrimSpace(row.Email)
	var (
		accountID int64
		username  string
	)
	for attempt := 0; ; attempt++ {
		if attempt == maxUsernameAttempts {
			return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: %w: username attempts exhausted", domain.ErrProvisioning)
		}
		username, err = p.Plan(ctx, row.CampName, taken)
		if err != nil {
			return domain.Credential{}, err
		}
		accountID, err = p.accounts.Create(ctx, username, hash, email)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateKey) {
			return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: %w: %w", domain.ErrProvisioning, err)
		}
		// Another writer took the username after Plan looked, or the email is
		// already registered. Only the former is worth another try.
		exists, existsErr := p.accounts.UsernameExists(ctx, username)
		if existsErr != nil {
			return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: %w: %w", domain.ErrProvisioning, existsErr)
		}
		if !exists {
			return domain.Credential{}, fmt.Errorf("service.Provisioner.Provision: %w: email %s already has an account", domain.ErrProvisioning, email)
		}
	}

	// From here on the account exists, so the credential is returned even
	// when a later step fails. Its password is not recoverable otherwise.
	cred := domain.Credential{
		CampName: row.CampName,
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := p.accounts.UpdateProfile(ctx, accountID, domain.ProfileFromDirector(row.DirectorName, row.Phone)); err != nil {
		return cred, fmt.Errorf("service.Provisioner.Provision: profile: %w: %w", domain.ErrProvisioning, err)
	}
	if err := p.accounts.AssignRole(ctx, accountID, domain.RoleCampOwner); err != nil {
		return cred, fmt.Errorf("service.Provisioner.Provision: role: %w: %w", domain.ErrProvisioning, err)
	}
	if err := p.camps.SetOwner(ctx, campID, accountID); err != nil {
		return cred, fmt.Errorf("service.Provisioner.Provision: owner link: %w: %w", domain.ErrProvisioning, err)
	}
	return cred, nil
}

func generatePassword() (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, passwordLen)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}

func bcryptHash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
