package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	"github.com/BrikenaAhmeti/WP25G10-frontend/board"
	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// app holds what every command needs: the loaded config and a gateway client.
type app struct {
	configPath string
	server     string
	cfg        *cliConfig
	api        *board.API
}

func (a *app) open() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	server := utils.FirstNonBlank(a.server, os.Getenv("AEROBOARD_URL"), cfg.Server, defaultServer)
	cfg.Server = server

	api, err := board.NewAPI(server, board.WithSessionCookie(cfg.cookie()))
	if err != nil {
		return err
	}
	a.api = api
	return nil
}

// persist stores the current session cookie, if it changed.
func (a *app) persist() error {
	if a.api == nil {
		return nil
	}
	a.cfg.setCookie(a.api.SessionCookie())
	return saveConfig(a.configPath, a.cfg)
}

// loginHint turns a missing session into an actionable error.
func loginHint(err error) error {
	if errors.Is(err, board.ErrLoginRequired) {
		return errors.New("not signed in, run `boardctl login` first")
	}
	return err
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Aeroboard flight board from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.persist()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&a.server, "server", "", "gateway URL (default from AEROBOARD_URL or config)")

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))
	root.AddCommand(newRegisterCmd(a))
	root.AddCommand(newFlightsCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newFavoritesCmd(a))
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var identifier, password string
	cmd := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password = utils.FirstNonBlank(password, os.Getenv("BOARDCTL_PASSWORD"))
			if strings.TrimSpace(identifier) == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			info, err := a.api.Login(cmd.Context(), identifier, password)
			if err != nil {
				return err
			}
			name := identifier
			if info.SignedIn() {
				name = info.User.Name
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("Signed in as"), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&identifier, "email", "", "email or username")
	cmd.Flags().StringVar(&password, "password", "", "password (or BOARDCTL_PASSWORD)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Logout(cmd.Context()); err != nil {
				_ = a.persist()
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := a.api.Session(cmd.Context())
			if err != nil {
				return err
			}
			if !info.SignedIn() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Not signed in"))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> until %s\n", titleStyle.Render(info.User.Name), info.User.Email, info.Expires)
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var req backend.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register --username <name> --email <email> --password <password>",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Register(cmd.Context(), req); err != nil {
				var se *board.StatusError
				if errors.As(err, &se) {
					return errors.New(se.Message)
				}
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Account created. Sign in to continue."))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.UserName, "username", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	return cmd
}

func newFlightsCmd(a *app) *cobra.Command {
	var boardName, focus string
	var filter flights.FilterState
	var watch bool
	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Show the flight board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Board = flights.ParseBoard(boardName)
			filter.Focus = flights.ParseFocus(focus)
			b := board.NewBoard(a.api, filter)

			v, err := b.View(cmd.Context())
			if err != nil {
				return loginHint(err)
			}
			renderView(cmd.OutOrStdout(), v)
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			b.Run(ctx, func(v board.View) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				renderView(cmd.OutOrStdout(), v)
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&boardName, "board", "arrivals", "arrivals|departures")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match flight, airline, route or status")
	cmd.Flags().StringVar(&filter.Date, "date", "", "only flights on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&filter.DelayedOnly, "delayed", false, "only delayed flights")
	cmd.Flags().StringVar(&focus, "focus", "all", "all|next60|delayed")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep refreshing until interrupted")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show today's operations summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.api.Stats(cmd.Context(), date)
			if err != nil {
				return loginHint(err)
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), default today")
	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	favorites := &cobra.Command{Use: "favorites", Short: "Manage saved flights"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved flights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.api.Favorites(cmd.Context())
			if err != nil {
				return loginHint(err)
			}
			shown := flights.Search(records, search)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("Showing %d of %d favorites", len(shown), len(records))))
			renderFlights(cmd.OutOrStdout(), shown)
			return nil
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter favorites")

	var flightNumber string
	add := &cobra.Command{
		Use:   "add <flight-id>",
		Short: "Save a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, a, func(ctx context.Context, fav *board.Favorites) board.Mutation {
				return fav.Add(ctx, flights.FlightRecord{ID: args[0], FlightNumber: flightNumber})
			})
		},
	}
	add.Flags().StringVar(&flightNumber, "number", "", "flight number shown in the confirmation")

	remove := &cobra.Command{
		Use:   "remove <flight-id>",
		Short: "Remove a saved flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, a, func(ctx context.Context, fav *board.Favorites) board.Mutation {
				return fav.Remove(ctx, args[0])
			})
		},
	}

	favorites.AddCommand(list, add, remove)
	return favorites
}

func mutate(cmd *cobra.Command, a *app, fn func(context.Context, *board.Favorites) board.Mutation) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	toaster := board.NewChannelToaster(8)
	m := fn(ctx, board.NewFavorites(a.api, toaster))
	renderToasts(cmd.OutOrStdout(), toaster)

	if m.Redirect != "" {
		return errors.New("not signed in, run `boardctl login` first")
	}
	if m.State == board.RolledBack {
		return m.Err
	}
	return nil
}
