package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository/filestore"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeedService(t *testing.T) (*service.Service, domain.Actor) {
	t.Helper()
	ctx := context.Background()

	store := filestore.New(filepath.Join(t.TempDir(), "escala.json"))
	svc := service.New(store)
	require.NoError(t, svc.EnsureInitialAdmin(ctx, "Administrador", "52998224725", "admin123"))

	admin, err := store.GetNurseByCPF(ctx, "52998224725")
	require.NoError(t, err)
	return svc, domain.Actor{UserID: admin.ID, Name: admin.Name, Role: admin.Role}
}

func TestSeedHospitalIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, admin := newSeedService(t)
	now := time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)

	first, err := SeedHospital(ctx, svc, admin, "enfermagem", now)
	require.NoError(t, err)
	assert.Equal(t, len(Sections), first.Sections)
	assert.Equal(t, len(Units), first.Units)
	assert.Equal(t, 11, first.Nurses)
	assert.Zero(t, first.Skipped)

	december, err := svc.ListRoster(ctx, 12, 2025, nil)
	require.NoError(t, err)
	assert.Len(t, december, 10)

	september, err := svc.ListRoster(ctx, 9, 2025, nil)
	require.NoError(t, err)
	assert.Empty(t, september)

	second, err := SeedHospital(ctx, svc, admin, "enfermagem", now)
	require.NoError(t, err)
	assert.Zero(t, second.Sections)
	assert.Zero(t, second.Units)
	assert.Zero(t, second.Nurses)
	assert.Equal(t, 11, second.Skipped)

	_, err = svc.Authenticate(ctx, "526.018.159-06", "enfermagem")
	assert.NoError(t, err)
}

func TestSeedSkipsBadRows(t *testing.T) {
	ctx := context.Background()
	svc, admin := newSeedService(t)

	csv := strings.Join([]string{
		"nome,cpf,coren,perfil,secao,unidade,vinculo",
		"Válida,526.018.159-06,,TECNICO,UTI Adulto,,CLT",
		"CPF errado,123.456.789-00,,TECNICO,UTI Adulto,,CLT",
		"Seção fantasma,083.016.613-05,,TECNICO,Hemodiálise,,CLT",
		"Sem CPF,,,TECNICO,UTI Adulto,,CLT",
	}, "\n")

	result, err := seedFrom(ctx, svc, admin, "enfermagem", time.Now(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Nurses)
	assert.Equal(t, 2, result.Skipped)
}

func TestSeedRejectsMissingColumns(t *testing.T) {
	svc, admin := newSeedService(t)

	_, err := seedFrom(context.Background(), svc, admin, "x", time.Now(), strings.NewReader("nome,cpf\nAna,52601815906\n"))
	assert.ErrorContains(t, err, "coluna")
}
