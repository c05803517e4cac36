package auth

import (
	"errors"
	"time"
)

// Storage chooses between a durable and a session-scoped TokenStore. A
// remembered login goes to the durable store, any other to the session
// store; saving to one clears the other so at most one holds a token.
type Storage struct {
	durable TokenStore
	session TokenStore
	now     func() time.Time
}

func NewStorage(durable, session TokenStore) *Storage {
	return &Storage{durable: durable, session: session, now: time.Now}
}

// Save stores t in the store selected by remember and clears the other.
func (s *Storage) Save(t Token, remember bool) error {
	keep, drop := s.session, s.durable
	if remember {
		keep, drop = s.durable, s.session
	}
	if err := keep.Save(t); err != nil {
		return err
	}
	return drop.Clear()
}

// Token returns the stored token. The session store is consulted first.
// An expired token is cleared and reported as ErrNoToken.
func (s *Storage) Token() (Token, error) {
	for _, store := range []TokenStore{s.session, s.durable} {
		t, err := store.Load()
		if errors.Is(err, ErrNoToken) {
			continue
		}
		if err != nil {
			return Token{}, err
		}
		if t.Expired(s.now()) {
			if err := store.Clear(); err != nil {
				return Token{}, err
			}
			continue
		}
		return t, nil
	}
	return Token{}, ErrNoToken
}

// Current returns the bearer value to send, or "" when no valid token is
// stored.
func (s *Storage) Current() (string, error) {
	t, err := s.Token()
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return t.Value, nil
}

// Clear removes the token from both stores.
func (s *Storage) Clear() error {
	return errors.Join(s.durable.Clear(), s.session.Clear())
}
