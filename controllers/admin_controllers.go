package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type AdminController struct {
	Dashboard *services.DashboardService
	Reports   *services.ReportService
}

func NewAdminController(dashboard *services.DashboardService, reports *services.ReportService) *AdminController {
	return &AdminController{Dashboard: dashboard, Reports: reports}
}

// GetDashboardStats mengambil statistik untuk dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Dashboard.Stats(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

func (ac *AdminController) GetUpcomingReservations(c *gin.Context) {
	limit, err := queryInt(c, "limit", 5)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	reservations, err := ac.Dashboard.Upcoming(c.Request.Context(), limit)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", reservations)
}

func (ac *AdminController) GetRecentReservations(c *gin.Context) {
	limit, err := queryInt(c, "limit", 5)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	reservations, err := ac.Dashboard.Recent(c.Request.Context(), limit)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent reservations", reservations)
}

func (ac *AdminController) GetWeeklyReservations(c *gin.Context) {
	days, err := ac.Dashboard.Weekly(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Weekly reservations", days)
}

func (ac *AdminController) GetWeeklyChart(c *gin.Context) {
	var buf bytes.Buffer
	if err := ac.Reports.WeeklyChart(c.Request.Context(), &buf); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GetReservationsReport -> PDF, ?from=&to= (default 30 hari terakhir)
func (ac *AdminController) GetReservationsReport(c *gin.Context) {
	loc := ac.Dashboard.Location
	from, to := defaultReportRange(ac.Dashboard.Now(), loc)

	if t, err := queryTime(c, "from", loc); err != nil {
		utils.RespondAppError(c, err)
		return
	} else if t != nil {
		from = *t
	}
	if t, err := queryTime(c, "to", loc); err != nil {
		utils.RespondAppError(c, err)
		return
	} else if t != nil {
		to = *t
	}
	if !to.After(from) {
		utils.RespondAppError(c, apperrors.NewValidationError("to", "must be after from"))
		return
	}

	var buf bytes.Buffer
	if err := ac.Reports.ReservationsPDF(c.Request.Context(), from, to, &buf); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	filename := fmt.Sprintf("reservations-%s-%s.pdf", from.In(loc).Format("20060102"), to.In(loc).Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// defaultReportRange is the last 30 days through the end of today.
func defaultReportRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -30), end
}
