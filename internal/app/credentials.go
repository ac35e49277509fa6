package app

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/domain"
)

var ErrWrongPassword = errors.New("wrong room password")

type credential struct {
	password string
	token    string
}

// CredentialStore owns the room → password/token mapping. The first
// authorize for a room records its password and mints its token; both are
// immutable after that. Credentials are never reclaimed, even when a room
// empties: re-joining an empty room requires the same password. Memory cost
// is two small strings per room ever created, acceptable for a
// single-process deployment.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[domain.RoomID]credential
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[domain.RoomID]credential)}
}

// CreateOrValidate records password and mints a token on the first call for
// roomID; later calls only compare. The double-checked lock keeps creation
// exactly-once under concurrent first joins.
func (s *CredentialStore) CreateOrValidate(roomID domain.RoomID, password string) (string, error) {
	s.mu.RLock()
	c, ok := s.creds[roomID]
	s.mu.RUnlock()
	if ok {
		if c.password != password {
			return "", ErrWrongPassword
		}
		return c.token, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.creds[roomID]; ok {
		if c.password != password {
			return "", ErrWrongPassword
		}
		return c.token, nil
	}
	c = credential{password: password, token: uuid.NewString()}
	s.creds[roomID] = c
	log.Info().Str("module", "app.credentials").Str("room", string(roomID)).Msg("room credentials created")
	return c.token, nil
}

func (s *CredentialStore) ValidateToken(roomID domain.RoomID, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[roomID]
	return ok && token != "" && c.token == token
}
