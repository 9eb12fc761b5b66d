package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/database"
	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/seed"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/utils"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operação (1: enfermeiras aleatórias, 2: plantões aleatórios, 3: folgas aleatórias, 4: seções e equipe reais)")
	flag.IntVar(&n, "n", 5, "quantidade de registros, ou de dias para plantões e folgas")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("não foi possível carregar a configuração", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, closeStore, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("não foi possível abrir o armazenamento", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	svc := service.New(store, service.WithLocation(cfg.Location()), service.WithLogger(logger))
	ctx := context.Background()

	// tudo roda em nome do administrador inicial
	if err := svc.EnsureInitialAdmin(ctx, cfg.InitialAdmin.Name, cfg.InitialAdmin.CPF, cfg.InitialAdmin.Password); err != nil {
		logger.Error("não foi possível criar o administrador inicial", slog.String("error", err.Error()))
		return
	}
	adminNurse, err := store.GetNurseByCPF(ctx, utils.NormalizeCPF(cfg.InitialAdmin.CPF))
	if err != nil {
		logger.Error("administrador inicial não encontrado", slog.String("error", err.Error()))
		return
	}
	admin := domain.Actor{UserID: adminNurse.ID, Name: adminNurse.Name, Role: adminNurse.Role}

	today := domain.DateOf(time.Now().In(cfg.Location()))

	switch op {
	case 0:
		slog.Error("nenhuma operação informada")
	case 1:
		if n <= 0 {
			slog.Error("informe uma quantidade válida de enfermeiras")
			return
		}

		sections, err := store.ListSections(ctx)
		if err != nil {
			slog.Error("não foi possível listar as seções", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			var sectionID *int64
			if len(sections) > 0 {
				sectionID = &sections[rand.Intn(len(sections))].ID
			}

			nurse, err := utils.GenerateRandomNurse(cfg.Seed.Nurse.Password, sectionID)
			if err != nil {
				slog.Error("não foi possível gerar a enfermeira", slog.String("error", err.Error()))
				continue
			}
			if err := store.CreateNurse(ctx, nurse); err != nil {
				slog.Error("não foi possível inserir a enfermeira", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("enfermeiras inseridas", slog.Int("count", cnt))
	case 2:
		if n <= 0 || n > 62 {
			slog.Error("informe de 1 a 62 dias")
			return
		}

		nurses, err := svc.ListNurses(ctx, nil)
		if err != nil {
			slog.Error("não foi possível listar as enfermeiras", slog.String("error", err.Error()))
			return
		}

		var batch []domain.Shift
		for _, nurse := range nurses {
			if nurse.Role == domain.RoleAdmin {
				continue
			}
			batch = append(batch, utils.GenerateRandomShifts(nurse.ID, today, n)...)
		}
		if len(batch) == 0 {
			slog.Error("nenhuma enfermeira para escalar")
			return
		}

		saved, err := svc.SaveShifts(ctx, admin, batch)
		if err != nil {
			slog.Error("não foi possível salvar os plantões", slog.String("error", err.Error()))
			return
		}

		slog.Info("plantões inseridos", slog.Int("count", len(saved)))
	case 3:
		if n <= 0 {
			slog.Error("informe uma janela de dias válida")
			return
		}

		nurses, err := svc.ListNurses(ctx, nil)
		if err != nil {
			slog.Error("não foi possível listar as enfermeiras", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, nurse := range nurses {
			if nurse.Role == domain.RoleAdmin {
				continue
			}
			if err := store.CreateTimeOff(ctx, utils.GenerateRandomTimeOff(nurse.ID, today, n)); err != nil {
				slog.Error("não foi possível inserir a folga", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("folgas inseridas", slog.Int("count", cnt))
	case 4:
		if _, err := seed.SeedHospital(ctx, svc, admin, cfg.Seed.Nurse.Password, time.Now().In(cfg.Location())); err != nil {
			slog.Error("não foi possível inserir os dados do hospital", slog.String("error", err.Error()))
		}
	default:
		slog.Error("operação inválida")
	}
}
