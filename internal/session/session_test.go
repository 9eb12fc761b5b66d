package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func testNurse() *domain.Nurse {
	section := int64(4)
	return &domain.Nurse{ID: 42, Name: "Ana", CPF: "52998224725", Role: domain.RoleCoordenador, SectionID: &section}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("segredo", time.Hour, &memoryRevoker{})

	token, expires, err := m.Issue(testNurse())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, int64(42), actor.UserID)
	assert.Equal(t, domain.RoleCoordenador, actor.Role)
	require.NotNil(t, actor.SectionID)
	assert.Equal(t, int64(4), *actor.SectionID)
}

func TestParseRejectsBadTokens(t *testing.T) {
	m := NewManager("segredo", time.Hour, &memoryRevoker{})
	token, _, err := m.Issue(testNurse())
	require.NoError(t, err)

	other := NewManager("outro", time.Hour, &memoryRevoker{})
	_, err = other.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(context.Background(), "lixo")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	revoker := &memoryRevoker{}
	m := NewManager("segredo", time.Hour, revoker)
	token, _, err := m.Issue(testNurse())
	require.NoError(t, err)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(context.Background(), claims))

	ttl := revoker.revoked[claims.ID]
	assert.Greater(t, ttl, 59*time.Minute)

	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestClaimsActorRejectsUnknownRole(t *testing.T) {
	claims := &Claims{Role: "VISITANTE"}
	claims.Subject = "1"
	_, err := claims.Actor()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
