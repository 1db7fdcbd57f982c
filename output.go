package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusColors = map[models.ReservationStatus]lipgloss.Color{
		models.StatusPending:   lipgloss.Color("214"),
		models.StatusConfirmed: lipgloss.Color("42"),
		models.StatusCompleted: lipgloss.Color("39"),
		models.StatusCancelled: lipgloss.Color("196"),
	}
)

func heading(s string) string {
	return headerStyle.Render(s)
}

func statusLabel(s models.ReservationStatus) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(string(s))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func reservationTable(reservations []models.Reservation) string {
	if len(reservations) == 0 {
		return mutedStyle.Render("  (none)")
	}
	t := newTable("ID", "When", "Guest", "Party", "Table", "Status")
	for _, r := range reservations {
		guest := ""
		if r.Customer != nil {
			guest = r.Customer.Name
		}
		t.Row(r.ID, r.DateTime.Local().Format("Mon 02 Jan 15:04"), guest,
			strconv.Itoa(r.PartySize), string(r.TableType), statusLabel(r.Status))
	}
	return t.String()
}

func menuTable(items []models.MenuItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("  (no menu items)")
	}
	t := newTable("ID", "Name", "Category", "Price", "Available")
	for _, m := range items {
		available := "yes"
		if !m.Available {
			available = "no"
		}
		t.Row(m.ID, m.Name, string(m.Category), utils.FormatPrice(m.Price), available)
	}
	return t.String()
}

func customerTable(customers []models.Customer) string {
	if len(customers) == 0 {
		return mutedStyle.Render("  (no customers)")
	}
	t := newTable("ID", "Name", "Email", "Phone", "Visits", "Status")
	for _, c := range customers {
		t.Row(c.ID, c.Name, c.Email, c.Phone, strconv.Itoa(c.Visits), string(c.Status))
	}
	return t.String()
}

func userTable(users []models.User) string {
	t := newTable("ID", "Name", "Email", "Role")
	for _, u := range users {
		t.Row(u.ID, u.Name, u.Email, string(u.Role))
	}
	return t.String()
}
