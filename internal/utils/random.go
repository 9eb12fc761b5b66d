package utils

import (
	"fmt"
	"math/rand"

	"github.com/enf-hma/escala/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Ana", "Maria", "Juliana", "Fernanda", "Patrícia", "Aline", "Camila", "Luciana", "Renata", "Simone",
	"Carlos", "José", "Paulo", "Rafael", "Marcos", "Lucas", "Tiago", "Rodrigo", "Bruno", "André",
}
var commonSurnames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Rodrigues", "Ferreira", "Alves", "Pereira", "Lima", "Gomes",
	"Costa", "Ribeiro", "Martins", "Carvalho", "Araújo", "Melo", "Barbosa", "Cardoso", "Rocha", "Dias",
}

func GenerateRandomPortugueseName() string {
	name := commonFirstNames[rand.Intn(len(commonFirstNames))]
	surnames := rand.Intn(2) + 1
	for i := 0; i < surnames; i++ {
		name += " " + commonSurnames[rand.Intn(len(commonSurnames))]
	}
	return name
}

// GenerateRandomCPF gera um CPF com dígitos verificadores válidos, sem máscara.
func GenerateRandomCPF() string {
	for {
		digits := make([]int, 11)
		for i := 0; i < 9; i++ {
			digits[i] = rand.Intn(10)
		}
		digits[9] = cpfCheckDigit(digits[:9], 10)
		digits[10] = cpfCheckDigit(digits[:10], 11)

		cpf := ""
		for _, d := range digits {
			cpf += fmt.Sprint(d)
		}
		if ValidateCPF(cpf) == nil {
			return cpf
		}
	}
}

var staffRoles = []domain.Role{
	domain.RoleEnfermeiro,
	domain.RoleEnfermeiro,
	domain.RoleTecnico,
	domain.RoleTecnico,
	domain.RoleTecnico,
}

// GenerateRandomRole sorteia entre enfermeiro e técnico, com mais técnicos, como num plantão real.
func GenerateRandomRole() domain.Role {
	return staffRoles[rand.Intn(len(staffRoles))]
}

var vinculos = []string{"ESTATUTARIO", "CLT", "CONTRATO"}

func GenerateRandomNurse(password string, sectionID *int64) (*domain.Nurse, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nurse := &domain.Nurse{
		Name:         GenerateRandomPortugueseName(),
		CPF:          GenerateRandomCPF(),
		PasswordHash: string(passwordHash),
		Role:         GenerateRandomRole(),
		SectionID:    sectionID,
		Vinculo:      vinculos[rand.Intn(len(vinculos))],
	}
	if nurse.Role == domain.RoleEnfermeiro {
		nurse.Coren = fmt.Sprintf("COREN-SP %06d", rand.Intn(1000000))
	}

	return nurse, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

// GenerateRandomShifts distribui plantões de 12x36 para a enfermeira a partir de start:
// um dia sim, um dia não, alternando diurno e noturno por enfermeira.
func GenerateRandomShifts(nurseID int64, start domain.Date, days int) []domain.Shift {
	offset := rand.Intn(2)
	shiftType := domain.ShiftDay
	if rand.Intn(2) == 1 {
		shiftType = domain.ShiftNight
	}

	shifts := make([]domain.Shift, 0, days/2+1)
	for d := offset; d < days; d += 2 {
		shifts = append(shifts, domain.Shift{
			NurseID: nurseID,
			Date:    start.AddDays(d),
			Type:    shiftType,
		})
	}
	return shifts
}

// GenerateRandomTimeOff gera um pedido de folga de 1 a 3 dias dentro da janela informada.
func GenerateRandomTimeOff(nurseID int64, start domain.Date, window int) *domain.TimeOffRequest {
	begin := start.AddDays(rand.Intn(window))
	statuses := []domain.TimeOffStatus{domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffRejected}

	return &domain.TimeOffRequest{
		NurseID:   nurseID,
		StartDate: begin,
		EndDate:   begin.AddDays(rand.Intn(3)),
		Reason:    "pedido gerado para testes",
		Type:      domain.TimeOffFolga,
		Status:    statuses[rand.Intn(len(statuses))],
	}
}
