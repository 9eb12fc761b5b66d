package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
)

// NormalizeCPF tira pontos, traços e espaços, deixando só os dígitos.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cpfCheckDigit(digits []int, weight int) int {
	sum := 0
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// ValidateCPF confere tamanho e dígitos verificadores. Aceita o CPF com ou sem máscara.
func ValidateCPF(cpf string) error {
	cpf = NormalizeCPF(cpf)
	if len(cpf) != 11 {
		return errors.New("CPF deve ter 11 dígitos")
	}

	digits := make([]int, 11)
	allEqual := true
	for i, r := range cpf {
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			allEqual = false
		}
	}
	// 000.000.000-00, 111.111.111-11 etc. passam na conta mas não existem
	if allEqual {
		return errors.New("CPF inválido")
	}

	if cpfCheckDigit(digits[:9], 10) != digits[9] || cpfCheckDigit(digits[:10], 11) != digits[10] {
		return errors.New("CPF inválido")
	}

	return nil
}

// ValidateShiftBatch confere cada item de um lote de plantões antes de gravar.
func ValidateShiftBatch(shifts []domain.Shift) error {
	for i, s := range shifts {
		if s.NurseID == 0 {
			return fmt.Errorf("item %d: enfermeira não informada", i+1)
		}
		if s.Date.IsZero() {
			return fmt.Errorf("item %d: data não informada", i+1)
		}
		if !s.Type.Valid() {
			return fmt.Errorf("item %d: tipo de plantão %q inválido", i+1, s.Type)
		}
	}
	return nil
}
