package service

import (
	"context"
	"errors"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
	"github.com/enf-hma/escala/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "CPF ou senha incorretos"

type NurseInput struct {
	Name      string
	CPF       string
	Password  string
	Coren     string
	Role      domain.Role
	SectionID *int64
	UnitID    *int64
	Vinculo   string
}

// NurseUpdate só altera os campos não nulos.
type NurseUpdate struct {
	Name      *string
	CPF       *string
	Coren     *string
	Role      *domain.Role
	SectionID *int64
	UnitID    *int64
	Vinculo   *string
	// ClearSection/ClearUnit desvinculam, já que um ponteiro nulo significa "não mexer".
	ClearSection bool
	ClearUnit    bool
	Password     *string
}

func (s *Service) checkPlacement(ctx context.Context, sectionID, unitID *int64) error {
	if sectionID != nil {
		if _, err := s.store.GetSectionByID(ctx, *sectionID); err != nil {
			return notFoundOr(err, "seção não encontrada")
		}
	}
	if unitID != nil {
		if _, err := s.store.GetUnitByID(ctx, *unitID); err != nil {
			return notFoundOr(err, "unidade não encontrada")
		}
	}
	return nil
}

func nurseWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicateCPF) {
		return domain.NewConflictError("CPF já cadastrado")
	}
	return notFoundOr(err, "enfermeira não encontrada")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) CreateNurse(ctx context.Context, actor domain.Actor, in NurseInput) (*domain.Nurse, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("o nome é obrigatório")
	}
	if err := utils.ValidateCPF(in.CPF); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("a senha é obrigatória")
	}
	if !in.Role.Valid() {
		return nil, domain.NewValidationError("perfil inválido")
	}
	if in.Role == domain.RoleAdmin && !actor.IsAdmin() {
		return nil, domain.NewPermissionError("apenas administradores criam administradores")
	}
	if err := s.checkPlacement(ctx, in.SectionID, in.UnitID); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, storeError(err)
	}

	nurse := &domain.Nurse{
		Name:         name,
		CPF:          utils.NormalizeCPF(in.CPF),
		PasswordHash: hash,
		Coren:        strings.TrimSpace(in.Coren),
		Role:         in.Role,
		SectionID:    in.SectionID,
		UnitID:       in.UnitID,
		Vinculo:      strings.TrimSpace(in.Vinculo),
	}
	if err := s.store.CreateNurse(ctx, nurse); err != nil {
		return nil, nurseWriteError(err)
	}

	return nurse, nil
}

func (s *Service) UpdateNurse(ctx context.Context, actor domain.Actor, id int64, in NurseUpdate) (*domain.Nurse, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	nurse, err := s.store.GetNurseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("o nome é obrigatório")
		}
		nurse.Name = name
	}
	if in.CPF != nil {
		if err := utils.ValidateCPF(*in.CPF); err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		nurse.CPF = utils.NormalizeCPF(*in.CPF)
	}
	if in.Coren != nil {
		nurse.Coren = strings.TrimSpace(*in.Coren)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.NewValidationError("perfil inválido")
		}
		if (*in.Role == domain.RoleAdmin || nurse.Role == domain.RoleAdmin) && !actor.IsAdmin() {
			return nil, domain.NewPermissionError("apenas administradores alteram administradores")
		}
		nurse.Role = *in.Role
	}
	if in.Vinculo != nil {
		nurse.Vinculo = strings.TrimSpace(*in.Vinculo)
	}

	if err := s.checkPlacement(ctx, in.SectionID, in.UnitID); err != nil {
		return nil, err
	}
	switch {
	case in.ClearSection:
		nurse.SectionID = nil
	case in.SectionID != nil:
		nurse.SectionID = in.SectionID
	}
	switch {
	case in.ClearUnit:
		nurse.UnitID = nil
	case in.UnitID != nil:
		nurse.UnitID = in.UnitID
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.NewValidationError("a senha é obrigatória")
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, storeError(err)
		}
		nurse.PasswordHash = hash
	}

	if err := s.store.UpdateNurse(ctx, nurse); err != nil {
		return nil, nurseWriteError(err)
	}

	return nurse, nil
}

// DeleteNurse apaga a enfermeira junto com plantões, folgas, lotações e trocas.
func (s *Service) DeleteNurse(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.NewValidationError("não é possível excluir a própria conta")
	}

	nurse, err := s.store.GetNurseByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "enfermeira não encontrada")
	}

	if err := s.store.DeleteNurse(ctx, id); err != nil {
		return notFoundOr(err, "enfermeira não encontrada")
	}

	s.publish(ctx, actor, domain.EventNurseDeleted, map[string]any{"id": nurse.ID, "name": nurse.Name})

	return nil
}

func (s *Service) GetNurse(ctx context.Context, id int64) (*domain.Nurse, error) {
	nurse, err := s.store.GetNurseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}
	return nurse, nil
}

// ListNurses filtra por seção quando sectionID não é nulo.
func (s *Service) ListNurses(ctx context.Context, sectionID *int64) ([]*domain.Nurse, error) {
	nurses, err := s.store.ListNurses(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if sectionID == nil {
		return nurses, nil
	}

	filtered := make([]*domain.Nurse, 0, len(nurses))
	for _, n := range nurses {
		if n.SectionID != nil && *n.SectionID == *sectionID {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// Authenticate confere CPF e senha. Não diz qual dos dois está errado.
func (s *Service) Authenticate(ctx context.Context, cpf, password string) (*domain.Nurse, error) {
	nurse, err := s.store.GetNurseByCPF(ctx, utils.NormalizeCPF(cpf))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, domain.NewValidationError(msgBadCredentials)
		}
		return nil, storeError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(nurse.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.NewValidationError(msgBadCredentials)
		}
		return nil, storeError(err)
	}

	return nurse, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.NewValidationError("a nova senha é obrigatória")
	}

	nurse, err := s.store.GetNurseByID(ctx, actor.UserID)
	if err != nil {
		return notFoundOr(err, "enfermeira não encontrada")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(nurse.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.NewValidationError("senha atual incorreta")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return storeError(err)
	}
	nurse.PasswordHash = hash

	if err := s.store.UpdateNurse(ctx, nurse); err != nil {
		return nurseWriteError(err)
	}
	return nil
}

// EnsureInitialAdmin cria o administrador inicial se o CPF ainda não existir.
func (s *Service) EnsureInitialAdmin(ctx context.Context, name, cpf, password string) error {
	cpf = utils.NormalizeCPF(cpf)

	_, err := s.store.GetNurseByCPF(ctx, cpf)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return storeError(err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin := &domain.Nurse{
		Name:         name,
		CPF:          cpf,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.store.CreateNurse(ctx, admin); err != nil {
		return nurseWriteError(err)
	}

	s.logger.Info("administrador inicial criado", "id", admin.ID)
	return nil
}
