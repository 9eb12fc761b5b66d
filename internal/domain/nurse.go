package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleEnfermeiro       Role = "ENFERMEIRO"
	RoleTecnico          Role = "TECNICO"
	RoleCoordenador      Role = "COORDENADOR"
	RoleAdmin            Role = "ADMIN"
	RoleCoordenacaoGeral Role = "COORDENACAO_GERAL"
)

var Roles = []Role{RoleEnfermeiro, RoleTecnico, RoleCoordenador, RoleAdmin, RoleCoordenacaoGeral}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

type Nurse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CPF          string    `json:"cpf"`
	PasswordHash string    `json:"-"`
	Coren        string    `json:"coren,omitempty"`
	Role         Role      `json:"role"`
	SectionID    *int64    `json:"sectionID"`
	UnitID       *int64    `json:"unitID"`
	Vinculo      string    `json:"vinculo"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor é a identidade de quem faz a requisição, já validada pela sessão.
type Actor struct {
	UserID    int64
	Name      string
	Role      Role
	SectionID *int64
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsManager cobre quem administra escalas: admin e coordenação geral.
func (a Actor) IsManager() bool {
	return a.Role == RoleAdmin || a.Role == RoleCoordenacaoGeral
}

func (a Actor) IsCoordinator() bool {
	return a.Role == RoleCoordenador
}

// InSection diz se o ator pertence à seção informada.
func (a Actor) InSection(sectionID int64) bool {
	return a.SectionID != nil && *a.SectionID == sectionID
}
