// Package session emite e confere o token de sessão guardado no cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const CookieName = "__enf_hma_escala_token"

var (
	ErrInvalidToken = errors.New("token inválido")
	ErrRevoked      = errors.New("sessão encerrada")
)

type Claims struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	SectionID *int64 `json:"section_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converte as claims na identidade usada pelos serviços.
func (c *Claims) Actor() (domain.Actor, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return domain.Actor{}, ErrInvalidToken
	}
	role := domain.Role(c.Role)
	if !role.Valid() {
		return domain.Actor{}, ErrInvalidToken
	}
	return domain.Actor{UserID: id, Name: c.Name, Role: role, SectionID: c.SectionID}, nil
}

// Revoker guarda os tokens encerrados por logout até eles expirarem.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

func NewManager(secret string, ttl time.Duration, revoker Revoker) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, revoker: revoker, now: time.Now}
}

func (m *Manager) Issue(nurse *domain.Nurse) (string, time.Time, error) {
	now := m.now()
	expiration := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:      string(nurse.Role),
		Name:      nurse.Name,
		CPF:       nurse.CPF,
		SectionID: nurse.SectionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(nurse.ID, 10),
		},
	})

	ss, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return ss, expiration, nil
}

// Parse valida assinatura e validade, e recusa tokens revogados.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	return claims, nil
}

// Revoke encerra a sessão até o momento em que o token expiraria.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.revoker.Revoke(ctx, claims.ID, ttl)
}

type RedisRevoker struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisRevoker(rdb *redis.Client, timeout time.Duration) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, timeout: timeout}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("session_%s_revoked", jti)
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
