// Package session decides which account the process acts for.
//
// Sign-in itself happens elsewhere; this package only reads what the
// configuration carries: an explicit account id, or an access token whose
// subject is the account id. Without either the process runs as guest.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/storage"
)

var ErrNoSubject = errors.New("token has no subject")

type Source string

const (
	SourceGuest  Source = "guest"
	SourceConfig Source = "config"
	SourceToken  Source = "token"
)

type Account struct {
	ID     string
	Source Source
}

var Guest = Account{ID: common.GuestAccountID, Source: SourceGuest}

func (a Account) IsGuest() bool {
	return a.ID == "" || a.ID == common.GuestAccountID
}

// Credentials is what the configuration knows about the caller.
type Credentials struct {
	AccountID   string
	AccessToken string
	// JWTSecret verifies HS256 tokens. When empty the token is decoded
	// without signature verification; its expiry is still enforced.
	JWTSecret string
}

// Resolve picks the account. A token that cannot be used yields Guest and
// an error matching storage.ErrAuth, so the caller can warn and go on.
func Resolve(c Credentials, now time.Time) (Account, error) {
	if c.AccountID != "" {
		return Account{ID: c.AccountID, Source: SourceConfig}, nil
	}
	if c.AccessToken == "" {
		return Guest, nil
	}

	sub, err := subject(c.AccessToken, []byte(c.JWTSecret), now)
	if err != nil {
		return Guest, fmt.Errorf("%w: %w", storage.ErrAuth, err)
	}
	return Account{ID: sub, Source: SourceToken}, nil
}

func subject(token string, secret []byte, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	timeFunc := jwt.WithTimeFunc(func() time.Time { return now })

	if len(secret) > 0 {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), timeFunc)
		if err != nil {
			return "", err
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return "", err
		}
		if err := jwt.NewValidator(timeFunc).Validate(claims); err != nil {
			return "", err
		}
	}

	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}
