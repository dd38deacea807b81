package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/apper-apps/mediconnect-code/internal/app"
	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/config"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
	calendarService "github.com/apper-apps/mediconnect-code/internal/service/calendar"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:          "mediconnect",
		Short:        "Patient and doctor portal API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")

	load := func() (*config.Config, error) {
		if configDir != "" {
			return config.LoadConfig(configDir)
		}
		return config.LoadConfig()
	}

	root.AddCommand(newServeCmd(load), newCalendarCmd(load))
	return root
}

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	l := logger.Setup(cfg.Log.Level, cfg.Log.JSON)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	defer a.Close()

	if err := a.StartBackground(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Bool("redis", a.Redis != nil).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

func newCalendarCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		month    string
		selected string
		roleName string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month of the seeded appointment calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			r, ok := role.Parse(roleName)
			if !ok {
				return fmt.Errorf("unknown role %q", roleName)
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			seed, err := store.LoadSeed()
			if err != nil {
				return err
			}
			st := store.New(seed, store.Options{})
			engine := calendar.New(loc, calendar.SlotPolicy(strings.ToLower(cfg.Calendar.SlotPolicy)))
			svc := calendarService.NewService(st.Appointments, st.Schedule, engine, calendarService.Config{
				UseClinicSchedule: cfg.Calendar.UseClinicSchedule,
			}, nil)

			view, err := svc.Month(cmd.Context(), calendarService.MonthQuery{Month: month, Selected: selected, Role: r})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printMonth(out, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&selected, "selected", "", "day to expand as YYYY-MM-DD")
	cmd.Flags().StringVar(&roleName, "role", string(model.RolePatient), "patient or doctor")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	return cmd
}

var weekdayColumn = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// dayCell renders one four character grid cell. Counts above 9 show as "+".
func dayCell(d calendar.DayCell) string {
	switch {
	case d.AppointmentCount > 9:
		return fmt.Sprintf("%2d*+", d.Day)
	case d.AppointmentCount > 0:
		return fmt.Sprintf("%2d*%d", d.Day, d.AppointmentCount)
	case d.Today:
		return fmt.Sprintf("%2d< ", d.Day)
	default:
		return fmt.Sprintf("%2d  ", d.Day)
	}
}

// printMonth draws a Sunday-first grid. Days with appointments carry their count.
func printMonth(w io.Writer, view calendar.MonthView) {
	fmt.Fprintf(w, "%s\n", view.Label)
	fmt.Fprintln(w, " Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	if len(view.Days) > 0 {
		fmt.Fprint(w, strings.Repeat("     ", weekdayColumn[view.Days[0].Weekday]))
	}
	for _, d := range view.Days {
		fmt.Fprintf(w, " %s", dayCell(d))
		if weekdayColumn[d.Weekday] == 6 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)

	if view.Selected == nil {
		return
	}
	fmt.Fprintf(w, "\n%s\n", view.Selected.Date)
	for _, a := range view.Selected.Appointments {
		fmt.Fprintf(w, "  %s  %-18s %-20s %s\n", a.DateTime.Format(calendar.SlotLayout), a.PatientName, a.DoctorName, a.Status)
	}
	if len(view.Selected.Appointments) == 0 {
		fmt.Fprintln(w, "  no appointments")
	}
	for _, s := range view.Selected.Slots {
		state := "free"
		if s.Booked {
			state = "booked"
		}
		fmt.Fprintf(w, "  slot %s %-9s %s\n", s.Time, s.Period, state)
	}
}
