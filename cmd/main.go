package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicSlots/internal/app"
	"github.com/m04kA/SMC-ClinicSlots/internal/config"
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/infra/migrations"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-ClinicSlots/pkg/logger"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-slots",
		Short:         "SMC-ClinicSlots: расписание и слоты приёма клиники",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "путь к TOML-конфигурации")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(backfillCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и инициализирует логгер
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewWithFormat(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API и фоновую материализацию слотов",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			log.Info("Starting SMC-ClinicSlots...")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Serve(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции базы данных",
	}

	run := func(action func(ctx context.Context, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := app.OpenDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator, err := migrations.NewMigrator(db, log)
			if err != nil {
				return err
			}
			return action(cmd.Context(), migrator)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все новые миграции",
		RunE: run(func(ctx context.Context, m *migrations.Migrator) error {
			return m.Up(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить последнюю миграцию",
		RunE: run(func(ctx context.Context, m *migrations.Migrator) error {
			return m.Down(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Показать состояние миграций",
		RunE: run(func(ctx context.Context, m *migrations.Migrator) error {
			return m.Status(ctx)
		}),
	})

	return cmd
}

func backfillCmd() *cobra.Command {
	var (
		from          string
		to            string
		rooms         []string
		practitioners []string
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Создать недостающие слоты за период (без ограничения горизонтом)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildBackfillRequest(from, to, rooms, practitioners)
			if err != nil {
				return err
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			application, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer application.Close()

			resp, err := application.Materializer.Backfill(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "days=%d inserted=%d closed=%d failures=%d\n",
				resp.Days, resp.Inserted, resp.ClosedDays, len(resp.Failures))
			for _, f := range resp.Failures {
				fmt.Fprintf(out, "  room=%s practitioner=%s date=%s: %s\n",
					f.RoomID, f.PractitionerID, f.Date.Format(domain.DateFormat), f.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "первая дата периода (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "последняя дата периода (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&rooms, "room", nil, "ID кабинета (по умолчанию все)")
	cmd.Flags().StringSliceVar(&practitioners, "practitioner", nil, "ID врача (по умолчанию все)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// buildBackfillRequest разбирает флаги; отсутствующий список означает "все"
func buildBackfillRequest(from, to string, rooms, practitioners []string) (*generate_slots.BackfillRequest, error) {
	dateFrom, err := domain.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	dateTo, err := domain.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("invalid --to: %w", err)
	}

	roomIDs, err := parseIDs(rooms)
	if err != nil {
		return nil, fmt.Errorf("invalid --room: %w", err)
	}
	practitionerIDs, err := parseIDs(practitioners)
	if err != nil {
		return nil, fmt.Errorf("invalid --practitioner: %w", err)
	}

	return &generate_slots.BackfillRequest{
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		RoomIDs:         roomIDs,
		PractitionerIDs: practitionerIDs,
	}, nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
