package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tourneyhub/internal/config"
	"tourneyhub/internal/db"
	"tourneyhub/internal/logger"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
)

type seedOptions struct {
	driver        string
	dsn           string
	reset         bool
	adminPassword string
	staffPassword string
	withEvents    bool
}

func main() {
	cfg := config.Load()
	opts := seedOptions{driver: cfg.DBDriver}

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the admin, the back-office employees and sample events",
		Long: `Creates the built-in accounts:
- admin donato@gmail.com
- employee empleado@test.com (manage events, moderate messages)
- employee empleado2@test.com (validate payments)
and, unless --events=false, a few sample events. Running it twice is safe.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				cfg.DBDriver = opts.driver
				opts.dsn = cfg.DSN()
			}
			return runSeed(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.driver, "driver", opts.driver, "Database driver (mysql, postgres)")
	rootCmd.Flags().StringVar(&opts.dsn, "dsn", "", "Connection string; defaults to the driver's DSN from the environment")
	rootCmd.Flags().BoolVar(&opts.reset, "reset", cfg.ResetDB, "Drop all tables before migrating")
	rootCmd.Flags().StringVar(&opts.adminPassword, "admin-password", envOr("SEED_ADMIN_PASSWORD", "admin12345"), "Password for the admin account")
	rootCmd.Flags().StringVar(&opts.staffPassword, "staff-password", envOr("SEED_STAFF_PASSWORD", "empleado123"), "Password for the seeded employees")
	rootCmd.Flags().BoolVar(&opts.withEvents, "events", true, "Create sample events")

	if err := logger.Init(cfg.Environment); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(ctx context.Context, opts seedOptions) error {
	if opts.driver == db.DriverMemory {
		return fmt.Errorf("nothing to seed with the %q driver", db.DriverMemory)
	}

	repos, closeDB, err := db.OpenRepositories(opts.driver, opts.dsn, opts.reset)
	if err != nil {
		return err
	}
	defer closeDB()
	zap.L().Info("connected to database", zap.String("driver", opts.driver), zap.Bool("reset", opts.reset))

	employees := service.NewEmployeeService(repos.Users, nil)
	events := service.NewEventService(repos.Events, nil)
	seeder := service.NewSeeder(repos.Users, employees, events)

	admin, err := seeder.Admin(ctx, "donato", "donato@gmail.com", opts.adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	staff := []service.CreateEmployeeInput{
		{
			Username:    "empleado",
			Email:       "empleado@test.com",
			Password:    opts.staffPassword,
			Permissions: model.EmployeePermissions{ManageEvents: true, ModerateMessages: true},
		},
		{
			Username:    "empleado2",
			Email:       "empleado2@test.com",
			Password:    opts.staffPassword,
			Permissions: model.EmployeePermissions{ValidatePayments: true},
		},
	}
	for _, input := range staff {
		if _, err := seeder.Employee(ctx, input); err != nil {
			return fmt.Errorf("seed employee %s: %w", input.Email, err)
		}
	}

	if !opts.withEvents {
		zap.L().Info("seed completed", zap.Int("employees", len(staff)))
		return nil
	}

	samples := sampleEvents(time.Now().UTC())
	for _, sample := range samples {
		if _, err := seeder.Event(ctx, admin.ID, sample.input, sample.published); err != nil {
			return fmt.Errorf("seed event %q: %w", sample.input.Name, err)
		}
	}

	zap.L().Info("seed completed", zap.Int("employees", len(staff)), zap.Int("events", len(samples)))
	return nil
}

type sampleEvent struct {
	input     service.CreateEventInput
	published bool
}

func sampleEvents(now time.Time) []sampleEvent {
	day := now.Truncate(24 * time.Hour)
	prize := decimal.NewFromInt(500)
	skin := "Skin Glitchpop Vandal"

	return []sampleEvent{
		{
			input: service.CreateEventInput{
				Name:        "Copa Valorant 5v5",
				Type:        model.EventTypeTournament,
				Game:        "Valorant",
				GameMode:    "5v5",
				PrizeType:   model.PrizeTypeMoney,
				PrizeMoney:  &prize,
				Fee:         decimal.NewFromInt(25),
				Slots:       16,
				EventDate:   day.Add(14*24*time.Hour + 20*time.Hour),
				Description: "Single elimination, best of three finals.",
			},
			published: true,
		},
		{
			input: service.CreateEventInput{
				Name:        "Rifa Skin Glitchpop",
				Type:        model.EventTypeRaffle,
				Game:        "Valorant",
				PrizeType:   model.PrizeTypeObject,
				PrizeObject: &skin,
				Fee:         decimal.NewFromInt(5),
				Slots:       100,
				EventDate:   day.Add(7*24*time.Hour + 21*time.Hour),
				Description: "Winner is drawn live on stream.",
			},
			published: true,
		},
		{
			input: service.CreateEventInput{
				Name:      "Torneo Rocket League 2v2",
				Type:      model.EventTypeTournament,
				Game:      "Rocket League",
				GameMode:  "2v2",
				PrizeType: model.PrizeTypeMoney,
				PrizeMoney: func() *decimal.Decimal {
					d := decimal.NewFromInt(200)
					return &d
				}(),
				Fee:       decimal.NewFromInt(10),
				Slots:     8,
				EventDate: day.Add(30*24*time.Hour + 19*time.Hour),
			},
			published: false,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
