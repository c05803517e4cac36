package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerctl/internal/auth"
)

// Identity is the user a token belongs to.
type Identity struct {
	Username string
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

var errNoTokenStorage = errors.New("no token storage configured")

// Login exchanges credentials for a token and stores it: durably when
// remember is set, for the session otherwise.
func (c *Client) Login(ctx context.Context, username, password string, remember bool) (auth.Token, error) {
	if c.tokens == nil {
		return auth.Token{}, errNoTokenStorage
	}
	r, err := c.postRecord(ctx, "/auth/login", loginPayload{Username: username, Password: password, Remember: remember})
	if err != nil {
		return auth.Token{}, err
	}
	tok := auth.Token{
		Value:     r.String("token", "Token"),
		ExpiresAt: r.Time("expires_at", "ExpiresAt", "expiresAt"),
	}
	if tok.Value == "" {
		return auth.Token{}, errors.New("login response carried no token")
	}
	if err := c.tokens.Save(tok, remember); err != nil {
		return auth.Token{}, fmt.Errorf("storing token: %w", err)
	}
	c.log.Info().Str("username", username).Bool("remember", remember).Msg("Logged in")
	return tok, nil
}

// Logout forgets the stored token. The server keeps no session.
func (c *Client) Logout() error {
	if c.tokens == nil {
		return errNoTokenStorage
	}
	return c.tokens.Clear()
}

// Me returns the identity of the current token.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	r, err := c.getRecord(ctx, "/auth/me", nil)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Username: r.String("username", "Username")}, nil
}
