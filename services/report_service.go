package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
)

// ReportService renders dashboard data as files for download.
type ReportService struct {
	Dashboard    *DashboardService
	Reservations *ReservationService
}

func NewReportService(dashboard *DashboardService, reservations *ReservationService) *ReportService {
	return &ReportService{Dashboard: dashboard, Reservations: reservations}
}

// WeeklyChart writes the last seven days of reservations as a PNG bar chart.
func (s *ReportService) WeeklyChart(ctx context.Context, w io.Writer) error {
	days, err := s.Dashboard.Weekly(ctx)
	if err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(days))
	highest := 1.0
	for _, day := range days {
		value := float64(day.Count)
		if value > highest {
			highest = value
		}
		bars = append(bars, chart.Value{Value: value, Label: day.Label})
	}

	graph := chart.BarChart{
		Title: "Reservations this week",
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Height:   400,
		Width:    700,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: highest},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

// ReservationsPDF writes a table of reservations between from (inclusive) and to (exclusive).
func (s *ReportService) ReservationsPDF(ctx context.Context, from, to time.Time, w io.Writer) error {
	reservations, err := s.Reservations.List(ctx, ReservationFilter{From: &from, To: &to})
	if err != nil {
		return err
	}
	loc := s.Dashboard.Location

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("TableMate reservations", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Reservations report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s to %s", from.In(loc).Format("02 Jan 2006"), to.In(loc).Format("02 Jan 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Date", "Customer", "Phone", "Party", "Table", "Status", "Pre-order"}
	widths := []float64{38, 60, 38, 16, 30, 28, 30}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	counts := map[models.ReservationStatus]int{}
	for _, r := range reservations {
		name, phone := "-", "-"
		if r.Customer != nil {
			name, phone = r.Customer.Name, r.Customer.Phone
		}
		row := []string{
			r.DateTime.In(loc).Format("02 Jan 2006 15:04"),
			tr(name),
			tr(phone),
			fmt.Sprintf("%d", r.PartySize),
			string(r.TableType),
			string(r.Status),
			utils.FormatPrice(r.Total()),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		counts[r.Status]++
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %d", len(reservations)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, status := range models.ReservationStatuses {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d", status, counts[status]), "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
