package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository/filestore"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminCPF      = "52998224725"
	adminPassword = "admin123"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[jti] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	h *Handler
}

func newTestServer(t *testing.T, burst int, opts ...func(*config.Config)) *testServer {
	t.Helper()

	brasilia := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, brasilia)

	store := filestore.New(filepath.Join(t.TempDir(), "escala.json"))
	svc := service.New(store,
		service.WithLocation(brasilia),
		service.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, svc.EnsureInitialAdmin(context.Background(), "Administrador", adminCPF, adminPassword))

	cfg := &config.Config{}
	cfg.RateLimit.Login.RequestsPerSecond = 0.001
	cfg.RateLimit.Login.Burst = burst
	for _, opt := range opts {
		opt(cfg)
	}

	h, err := NewHandler(cfg, svc, session.NewManager("segredo-de-teste", time.Hour, &memoryRevoker{}))
	require.NoError(t, err)
	h.RegisterRoutes()

	return &testServer{h: h}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.h.Mux.ServeHTTP(rec, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func (s *testServer) login(t *testing.T, cpf, password string) *http.Cookie {
	t.Helper()

	rec, resp := s.do(t, http.MethodPost, "/auth/login", map[string]string{"cpf": cpf, "password": password}, nil)
	require.True(t, resp.Success, resp.Message)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("cookie de sessão ausente")
	return nil
}

func (s *testServer) createNurse(t *testing.T, admin *http.Cookie, name, cpf string, role domain.Role, sectionID *int64) *domain.Nurse {
	t.Helper()

	_, resp := s.do(t, http.MethodPost, "/nurses", map[string]any{
		"name":      name,
		"cpf":       cpf,
		"password":  "senha123",
		"role":      role,
		"sectionID": sectionID,
	}, admin)
	require.True(t, resp.Success, resp.Message)

	var data struct {
		Nurse *domain.Nurse `json:"nurse"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Nurse
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, 10)
	cookie := s.login(t, adminCPF, adminPassword)
	assert.True(t, cookie.HttpOnly)

	_, resp := s.do(t, http.MethodGet, "/me", nil, cookie)
	require.True(t, resp.Success)
	me := decode[domain.Nurse](t, resp.Data)
	assert.Equal(t, adminCPF, me.CPF)
	assert.Equal(t, domain.RoleAdmin, me.Role)
	assert.NotContains(t, string(resp.Data), "password")

	_, resp = s.do(t, http.MethodPost, "/auth/login", map[string]string{"cpf": adminCPF, "password": "errada"}, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "CPF ou senha incorretos", resp.Message)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newTestServer(t, 10)

	rec, resp := s.do(t, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "usuário não autenticado", resp.Message)

	_, resp = s.do(t, http.MethodGet, "/me", nil, &http.Cookie{Name: session.CookieName, Value: "lixo"})
	assert.False(t, resp.Success)
	assert.Equal(t, session.ErrInvalidToken.Error(), resp.Message)
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newTestServer(t, 10)
	cookie := s.login(t, adminCPF, adminPassword)

	_, resp := s.do(t, http.MethodPost, "/auth/logout", nil, cookie)
	require.True(t, resp.Success)

	_, resp = s.do(t, http.MethodGet, "/me", nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, session.ErrRevoked.Error(), resp.Message)
}

func TestLoginIsRateLimited(t *testing.T) {
	s := newTestServer(t, 1)
	s.login(t, adminCPF, adminPassword)

	rec, resp := s.do(t, http.MethodPost, "/auth/login", map[string]string{"cpf": adminCPF, "password": adminPassword}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, resp.Success)
}

func (s *testServer) loginFrom(t *testing.T, remoteAddr string, headers map[string]string) int {
	t.Helper()

	body, err := json.Marshal(map[string]string{"cpf": adminCPF, "password": "errada"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.h.Mux.ServeHTTP(rec, req)
	return rec.Code
}

func TestLoginLimiterIgnoresForwardedHeaders(t *testing.T) {
	s := newTestServer(t, 1)

	codes := make([]int, 0, 5)
	for i := 1; i <= 5; i++ {
		codes = append(codes, s.loginFrom(t, "203.0.113.7:5000", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i),
			"X-Real-IP":       fmt.Sprintf("10.0.1.%d", i),
		}))
	}
	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)

	// outra conexão tem o seu próprio balde
	assert.Equal(t, http.StatusOK, s.loginFrom(t, "203.0.113.8:5000", nil))
}

func TestLoginLimiterBehindTrustedProxy(t *testing.T) {
	s := newTestServer(t, 1, func(cfg *config.Config) { cfg.Server.TrustProxy = true })

	assert.Equal(t, http.StatusOK, s.loginFrom(t, "10.1.1.1:80", map[string]string{"X-Real-IP": "198.51.100.1"}))
	assert.Equal(t, http.StatusOK, s.loginFrom(t, "10.1.1.1:80", map[string]string{"X-Real-IP": "198.51.100.2"}))
	assert.Equal(t, http.StatusTooManyRequests, s.loginFrom(t, "10.1.1.1:80", map[string]string{"X-Real-IP": "198.51.100.1"}))
}

func TestSessionFollowsCurrentRecord(t *testing.T) {
	s := newTestServer(t, 10)
	admin := s.login(t, adminCPF, adminPassword)

	t.Run("perfil rebaixado", func(t *testing.T) {
		chefe := s.createNurse(t, admin, "Roberta", "11144477735", domain.RoleCoordenacaoGeral, nil)
		cookie := s.login(t, "11144477735", "senha123")

		_, resp := s.do(t, http.MethodPost, "/sections", map[string]any{"title": "UTI"}, cookie)
		require.True(t, resp.Success, resp.Message)

		_, resp = s.do(t, http.MethodPatch, fmt.Sprintf("/nurses/%d", chefe.ID), map[string]any{"role": domain.RoleEnfermeiro}, admin)
		require.True(t, resp.Success, resp.Message)

		_, resp = s.do(t, http.MethodPost, "/sections", map[string]any{"title": "Pediatria"}, cookie)
		assert.False(t, resp.Success)
		assert.Equal(t, "permissão insuficiente", resp.Message)
	})

	t.Run("cadastro excluído", func(t *testing.T) {
		nurse := s.createNurse(t, admin, "Bruno", "39053344704", domain.RoleEnfermeiro, nil)
		cookie := s.login(t, "39053344704", "senha123")

		_, resp := s.do(t, http.MethodDelete, fmt.Sprintf("/nurses/%d", nurse.ID), nil, admin)
		require.True(t, resp.Success, resp.Message)

		_, resp = s.do(t, http.MethodGet, "/me", nil, cookie)
		assert.False(t, resp.Success)
		assert.Equal(t, "usuário não encontrado", resp.Message)
	})
}

func TestRoleAndValidationErrors(t *testing.T) {
	s := newTestServer(t, 10)
	admin := s.login(t, adminCPF, adminPassword)

	_, resp := s.do(t, http.MethodPost, "/sections", map[string]any{}, admin)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Title")

	s.createNurse(t, admin, "Nair", "11144477735", domain.RoleEnfermeiro, nil)
	nurse := s.login(t, "111.444.777-35", "senha123")

	_, resp = s.do(t, http.MethodPost, "/sections", map[string]any{"title": "UTI"}, nurse)
	assert.False(t, resp.Success)
	assert.Equal(t, "permissão insuficiente", resp.Message)

	_, resp = s.do(t, http.MethodGet, "/coordination/ferias", nil, nurse)
	assert.False(t, resp.Success)
	assert.Equal(t, "tipo de solicitação inválido", resp.Message)

	_, resp = s.do(t, http.MethodGet, "/nurses/abc", nil, nurse)
	assert.False(t, resp.Success)
	assert.Equal(t, "ID de enfermeira inválido", resp.Message)

	_, resp = s.do(t, http.MethodGet, "/nurses/999", nil, nurse)
	assert.False(t, resp.Success)
	assert.Equal(t, "enfermeira não encontrada", resp.Message)
}

func TestSwapFlowOverHTTP(t *testing.T) {
	s := newTestServer(t, 10)
	admin := s.login(t, adminCPF, adminPassword)

	_, resp := s.do(t, http.MethodPost, "/sections", map[string]any{"title": "UTI Adulto", "position": 1}, admin)
	require.True(t, resp.Success, resp.Message)
	icu := decode[domain.Section](t, resp.Data)

	ana := s.createNurse(t, admin, "Ana", "11144477735", domain.RoleEnfermeiro, &icu.ID)
	bruno := s.createNurse(t, admin, "Bruno", "39053344704", domain.RoleTecnico, &icu.ID)

	_, resp = s.do(t, http.MethodPut, "/shifts", map[string]any{"shifts": []map[string]any{
		{"nurseID": ana.ID, "date": "2025-03-11", "type": "day"},
		{"nurseID": bruno.ID, "date": "2025-03-15", "type": "night"},
	}}, admin)
	require.True(t, resp.Success, resp.Message)

	anaCookie := s.login(t, "11144477735", "senha123")
	brunoCookie := s.login(t, "39053344704", "senha123")

	// só na véspera
	_, resp = s.do(t, http.MethodPost, "/swaps", map[string]any{
		"requestedID":        bruno.ID,
		"requesterShiftDate": "2025-03-12",
		"requestedShiftDate": "2025-03-15",
	}, anaCookie)
	assert.False(t, resp.Success)

	_, resp = s.do(t, http.MethodPost, "/swaps", map[string]any{
		"requestedID":        bruno.ID,
		"requesterShiftDate": "2025-03-11",
		"requestedShiftDate": "2025-03-15",
	}, anaCookie)
	require.True(t, resp.Success, resp.Message)
	swap := decode[domain.ShiftSwap](t, resp.Data)
	assert.Equal(t, domain.SwapPending, swap.Status)

	_, resp = s.do(t, http.MethodGet, "/swaps/pending", nil, brunoCookie)
	require.True(t, resp.Success)
	pending := decode[[]domain.ShiftSwap](t, resp.Data)
	require.Len(t, pending, 1)

	_, resp = s.do(t, http.MethodPost, fmt.Sprintf("/swaps/%d/approve", swap.ID), nil, anaCookie)
	assert.False(t, resp.Success)

	_, resp = s.do(t, http.MethodPost, fmt.Sprintf("/swaps/%d/approve", swap.ID), nil, brunoCookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = s.do(t, http.MethodPost, fmt.Sprintf("/swaps/%d/reject", swap.ID), nil, brunoCookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "troca já finalizada", resp.Message)

	_, resp = s.do(t, http.MethodGet, "/shifts?from=2025-03-11&to=2025-03-15", nil, anaCookie)
	require.True(t, resp.Success, resp.Message)
	shifts := decode[[]domain.Shift](t, resp.Data)
	require.Len(t, shifts, 2)
	owner := map[string]int64{}
	for _, sh := range shifts {
		owner[sh.Date.String()] = sh.NurseID
	}
	assert.Equal(t, bruno.ID, owner["2025-03-11"])
	assert.Equal(t, ana.ID, owner["2025-03-15"])
}

func TestRosterAssignOverHTTP(t *testing.T) {
	s := newTestServer(t, 10)
	admin := s.login(t, adminCPF, adminPassword)

	_, resp := s.do(t, http.MethodPost, "/sections", map[string]any{"title": "Centro Cirúrgico"}, admin)
	require.True(t, resp.Success, resp.Message)
	section := decode[domain.Section](t, resp.Data)
	nurse := s.createNurse(t, admin, "Carla", "11144477735", domain.RoleEnfermeiro, nil)

	_, resp = s.do(t, http.MethodPost, "/rosters/assign", map[string]any{
		"nurseID": nurse.ID, "sectionID": section.ID, "month": 10, "year": 2025,
	}, admin)
	require.True(t, resp.Success, resp.Message)
	assert.Len(t, decode[[]domain.MonthlyRosterEntry](t, resp.Data), 3)

	_, resp = s.do(t, http.MethodGet, fmt.Sprintf("/rosters/%d/2025/12", nurse.ID), nil, admin)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, section.ID, decode[domain.MonthlyRosterEntry](t, resp.Data).SectionID)

	_, resp = s.do(t, http.MethodGet, "/rosters?month=10", nil, admin)
	assert.False(t, resp.Success)
	assert.Equal(t, "parâmetro year é obrigatório", resp.Message)

	_, resp = s.do(t, http.MethodPost, "/rosters/remove", map[string]any{"nurseID": nurse.ID, "month": 11, "year": 2025}, admin)
	require.True(t, resp.Success, resp.Message)
	assert.JSONEq(t, `{"removed":2}`, string(resp.Data))
}

func TestStoreErrorBecomesInternalError(t *testing.T) {
	s := newTestServer(t, 10)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.h.serviceError(rec, req, domain.NewStoreError("erro ao acessar o armazenamento", context.DeadlineExceeded))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, context.DeadlineExceeded.Error())

	rec = httptest.NewRecorder()
	s.h.serviceError(rec, req, domain.NewConflictError("troca já finalizada"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
