package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/utils"
)

// Seções na ordem em que aparecem na escala impressa.
var Sections = []string{
	"UTI Adulto",
	"UTI Neonatal",
	"Clínica Médica",
	"Clínica Cirúrgica",
	"Centro Cirúrgico",
	"Pronto Socorro",
	"Maternidade",
	"Pediatria",
}

var Units = []string{"Bloco A", "Bloco B", "Anexo"}

//go:embed data/equipe.csv
var teamCSV []byte

var teamHeaders = []string{"nome", "cpf", "coren", "perfil", "secao", "unidade", "vinculo"}

type Result struct {
	Sections int
	Units    int
	Nurses   int
	Skipped  int
}

// SeedHospital cadastra seções, unidades e a equipe do arquivo embutido, lotando
// cada pessoa a partir do mês de now. Pode rodar mais de uma vez: o que já existe é mantido.
func SeedHospital(ctx context.Context, svc *service.Service, admin domain.Actor, password string, now time.Time) (Result, error) {
	return seedFrom(ctx, svc, admin, password, now, bytes.NewReader(teamCSV))
}

func seedFrom(ctx context.Context, svc *service.Service, admin domain.Actor, password string, now time.Time, r io.Reader) (Result, error) {
	var result Result

	sections, err := ensureSections(ctx, svc, admin, &result)
	if err != nil {
		return result, err
	}
	units, err := ensureUnits(ctx, svc, admin, &result)
	if err != nil {
		return result, err
	}

	records, err := readTeam(r)
	if err != nil {
		return result, err
	}

	for _, record := range records {
		in := service.NurseInput{
			Name:     record["nome"],
			CPF:      record["cpf"],
			Password: password,
			Coren:    record["coren"],
			Role:     domain.Role(record["perfil"]),
			Vinculo:  record["vinculo"],
		}
		if title := record["secao"]; title != "" {
			section, ok := sections[title]
			if !ok {
				slog.Error("seção desconhecida na planilha", "secao", title, "nome", in.Name)
				result.Skipped++
				continue
			}
			in.SectionID = &section.ID
		}
		if title := record["unidade"]; title != "" {
			if unit, ok := units[title]; ok {
				in.UnitID = &unit.ID
			}
		}

		nurse, err := svc.CreateNurse(ctx, admin, in)
		if err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				// já cadastrada numa rodada anterior
				result.Skipped++
				continue
			}
			if domain.IsKind(err, domain.KindStore) {
				return result, err
			}
			slog.Error("linha inválida na planilha", "nome", in.Name, "error", err)
			result.Skipped++
			continue
		}
		result.Nurses++

		if nurse.SectionID == nil {
			continue
		}
		if _, err := svc.AssignRoster(ctx, admin, service.AssignRosterInput{
			NurseID:   nurse.ID,
			SectionID: *nurse.SectionID,
			UnitID:    nurse.UnitID,
			Month:     int(now.Month()),
			Year:      now.Year(),
		}); err != nil {
			return result, err
		}
	}

	slog.Info("dados do hospital inseridos", "secoes", result.Sections, "unidades", result.Units, "enfermeiras", result.Nurses, "ignoradas", result.Skipped)
	return result, nil
}

func ensureSections(ctx context.Context, svc *service.Service, admin domain.Actor, result *Result) (map[string]*domain.Section, error) {
	existing, err := svc.ListSections(ctx)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]*domain.Section, len(existing))
	for _, s := range existing {
		byTitle[s.Title] = s
	}

	for i, title := range Sections {
		if _, ok := byTitle[title]; ok {
			continue
		}
		section, err := svc.CreateSection(ctx, admin, title, int32(i+1))
		if err != nil {
			return nil, err
		}
		byTitle[title] = section
		result.Sections++
	}

	return byTitle, nil
}

func ensureUnits(ctx context.Context, svc *service.Service, admin domain.Actor, result *Result) (map[string]*domain.Unit, error) {
	existing, err := svc.ListUnits(ctx)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]*domain.Unit, len(existing))
	for _, u := range existing {
		byTitle[u.Title] = u
	}

	for _, title := range Units {
		if _, ok := byTitle[title]; ok {
			continue
		}
		unit, err := svc.CreateUnit(ctx, admin, title)
		if err != nil {
			return nil, err
		}
		byTitle[title] = unit
		result.Units++
	}

	return byTitle, nil
}

func readTeam(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o cabeçalho: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, want := range teamHeaders {
		if !slices.Contains(headers, want) {
			return nil, fmt.Errorf("coluna %q ausente", want)
		}
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao ler a planilha: %w", err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}
		if utils.NormalizeCPF(record["cpf"]) == "" {
			slog.Error("linha sem CPF", "record", record)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
