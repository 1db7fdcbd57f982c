package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/client"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/guard"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/session"
	"github.com/yeremiapane/tablemate/utils"
)

// clientApp is one CLI invocation's view of the API: the restored session, the client that
// authenticates through it, and the guards that read it.
type clientApp struct {
	holder *session.Holder
	api    *client.Client
	nav    *guard.Navigator
}

func openClient() *clientApp {
	cfg := config.LoadClient()
	utils.InfoLogger.SetLevel(logrus.WarnLevel)

	holder, api := session.Connect(cfg.APIURL, session.NewFileStore(cfg.SessionFile))
	holder.Init()
	return &clientApp{holder: holder, api: api, nav: guard.NewNavigator(holder)}
}

func (a *clientApp) close() {
	if err := a.holder.Close(); err != nil {
		utils.ErrorLogger.Errorf("save session: %v", err)
	}
}

type clientFunc func(cmd *cobra.Command, args []string, app *clientApp) error

// guarded opens the session, checks path against the navigator and runs fn.
// An empty path skips the check.
func guarded(path string, fn clientFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app := openClient()
		defer app.close()

		if path != "" {
			if d := app.nav.Check(path); !d.Allowed {
				return app.denied(d.Redirect)
			}
		}
		return explain(fn(cmd, args, app))
	}
}

func (a *clientApp) denied(redirect string) error {
	id, ok := a.holder.Current()
	switch {
	case redirect == guard.HomePath && ok:
		return fmt.Errorf("already logged in as %s; run `tablemate logout` first", id.Email)
	case ok:
		return fmt.Errorf("%s is not an administrator; log in with an admin account", id.Email)
	default:
		return errors.New("not logged in; run `tablemate login` first")
	}
}

func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return err
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fmt.Errorf("%w; your session has ended, log in again", err)
	case client.IsNetwork(err):
		return fmt.Errorf("%w; is the server running?", err)
	default:
		return err
	}
}

func addClientCommands(root *cobra.Command) {
	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newMenuCmd(),
		newBookCmd(),
		newReservationsCmd(),
		newAdminCmd(),
	)
}

func newLoginCmd() *cobra.Command {
	var form models.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: guarded("/login", func(cmd *cobra.Command, args []string, app *clientApp) error {
			id, err := app.holder.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", id.Name, id.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var form models.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account and log in",
		Args:  cobra.NoArgs,
		RunE: guarded("/register", func(cmd *cobra.Command, args []string, app *clientApp) error {
			id, err := app.holder.Register(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are now logged in.\n", id.Name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: guarded("", func(cmd *cobra.Command, args []string, app *clientApp) error {
			if err := app.holder.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: guarded("", func(cmd *cobra.Command, args []string, app *clientApp) error {
			id, ok := app.holder.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", id.Name, id.Email, id.Role)
			return nil
		}),
	}
}

func newMenuCmd() *cobra.Command {
	var (
		category  string
		available bool
	)
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Browse the menu",
		Args:  cobra.NoArgs,
		RunE: guarded("/menu", func(cmd *cobra.Command, args []string, app *clientApp) error {
			var filters []client.Filter
			if category != "" {
				filters = append(filters, client.Category(models.MenuCategory(category)))
			}
			if available {
				filters = append(filters, client.AvailableOnly())
			}
			items, err := app.api.Menu.List(cmd.Context(), filters...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), menuTable(items))
			return nil
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "starter, main, dessert, beverage or popular")
	cmd.Flags().BoolVar(&available, "available", false, "only items that can be ordered")
	cmd.AddCommand(newMenuAddCmd(), newMenuRemoveCmd())
	return cmd
}

func newMenuAddCmd() *cobra.Command {
	var form models.MenuItemForm
	var category string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a menu item (admin)",
		Args:  cobra.NoArgs,
		RunE: guarded("/admin/menu", func(cmd *cobra.Command, args []string, app *clientApp) error {
			form.Category = models.MenuCategory(category)
			item, err := app.api.Menu.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at %s\n", item.Name, item.ID, utils.FormatPrice(item.Price))
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "dish name")
	cmd.Flags().StringVar(&form.Description, "description", "", "short description")
	cmd.Flags().Float64Var(&form.Price, "price", 0, "price, at most two decimals")
	cmd.Flags().StringVar(&category, "category", "", "starter, main, dessert, beverage or popular")
	return cmd
}

func newMenuRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a menu item (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: guarded("/admin/menu", func(cmd *cobra.Command, args []string, app *clientApp) error {
			if err := app.api.Menu.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted menu item %s\n", args[0])
			return nil
		}),
	}
}

func newBookCmd() *cobra.Command {
	var (
		form      models.BookingForm
		at        string
		tableType string
		items     []string
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a table",
		Args:  cobra.NoArgs,
		RunE: guarded("/book", func(cmd *cobra.Command, args []string, app *clientApp) error {
			when, err := parseWhen(at)
			if err != nil {
				return err
			}
			form.DateTime = when
			form.TableType = models.TableType(tableType)
			if form.Items, err = parseItems(items); err != nil {
				return err
			}
			if id, ok := app.holder.Current(); ok {
				if form.Name == "" {
					form.Name = id.Name
				}
				if form.Email == "" {
					form.Email = id.Email
				}
			}

			r, err := app.api.Reservations.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservation %s for %d on %s is %s\n",
				r.ID, r.PartySize, r.DateTime.Local().Format("Mon 2 Jan 2006 15:04"), r.Status)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "guest name (defaults to the logged-in account)")
	cmd.Flags().StringVar(&form.Email, "email", "", "guest email (defaults to the logged-in account)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&at, "at", "", `seating time, RFC 3339 or "2006-01-02 19:30" local time`)
	cmd.Flags().IntVar(&form.PartySize, "party", 2, "number of guests, 1-20")
	cmd.Flags().StringVar(&tableType, "table", string(models.TableRegular), "regular, window, booth, large-group or private")
	cmd.Flags().StringVar(&form.SpecialRequests, "requests", "", "special requests")
	cmd.Flags().StringArrayVar(&items, "item", nil, "pre-order as <menu-item-id>:<quantity>, repeatable")
	return cmd
}

func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperrors.NewValidationError("date_time", "is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date_time", `must look like "2006-01-02 19:30"`)
	}
	return t, nil
}

func parseItems(raw []string) ([]models.ItemForm, error) {
	var items []models.ItemForm
	for i, entry := range raw {
		id, qty, found := strings.Cut(entry, ":")
		if !found {
			qty = "1"
		}
		n, err := strconv.Atoi(qty)
		if err != nil || strings.TrimSpace(id) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("items[%d]", i), "must be <menu-item-id>:<quantity>")
		}
		items = append(items, models.ItemForm{MenuItemID: strings.TrimSpace(id), Quantity: n})
	}
	return items, nil
}

func newReservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Your reservation history",
		Args:  cobra.NoArgs,
		RunE: guarded("/reservations/mine", func(cmd *cobra.Command, args []string, app *clientApp) error {
			history, err := app.api.Reservations.Mine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading("Upcoming"))
			fmt.Fprintln(out, reservationTable(history.Upcoming))
			fmt.Fprintln(out, heading("Past"))
			fmt.Fprintln(out, reservationTable(history.Past))
			return nil
		}),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel one of your reservations",
		Args:  cobra.ExactArgs(1),
		RunE: guarded("/reservations/mine", func(cmd *cobra.Command, args []string, app *clientApp) error {
			r, err := app.api.Reservations.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservation %s is %s\n", r.ID, r.Status)
			return nil
		}),
	})
	return cmd
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}

	var status string
	list := &cobra.Command{
		Use:   "reservations",
		Short: "List reservations",
		Args:  cobra.NoArgs,
		RunE: guarded("/admin/reservations", func(cmd *cobra.Command, args []string, app *clientApp) error {
			var filters []client.Filter
			if status != "" {
				filters = append(filters, client.Status(models.ReservationStatus(status)))
			}
			reservations, err := app.api.Reservations.List(cmd.Context(), filters...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reservationTable(reservations))
			return nil
		}),
	}
	list.Flags().StringVar(&status, "status", "", "pending, confirmed, cancelled or completed")

	cmd.AddCommand(
		list,
		statusCmd("confirm", (*client.Reservations).Confirm),
		statusCmd("complete", (*client.Reservations).Complete),
		statusCmd("cancel", (*client.Reservations).Cancel),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a reservation",
			Args:  cobra.ExactArgs(1),
			RunE: guarded("/admin/reservations", func(cmd *cobra.Command, args []string, app *clientApp) error {
				if err := app.api.Reservations.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted reservation %s\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "customers",
			Short: "List customers",
			Args:  cobra.NoArgs,
			RunE: guarded("/admin/customers", func(cmd *cobra.Command, args []string, app *clientApp) error {
				customers, err := app.api.Customers.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), customerTable(customers))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "users",
			Short: "List user accounts",
			Args:  cobra.NoArgs,
			RunE: guarded("/admin/users", func(cmd *cobra.Command, args []string, app *clientApp) error {
				users, err := app.api.Users.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), userTable(users))
				return nil
			}),
		},
	)
	return cmd
}

type statusAction func(*client.Reservations, context.Context, string) (*models.Reservation, error)

func statusCmd(name string, action statusAction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: strings.ToUpper(name[:1]) + name[1:] + " a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: guarded("/admin/reservations", func(cmd *cobra.Command, args []string, app *clientApp) error {
			r, err := action(app.api.Reservations, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservation %s is %s\n", r.ID, r.Status)
			return nil
		}),
	}
}
