package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/availability"
	"github.com/cocopets/boarding/internal/repository/mongodb"
)

// ReportsHandler serves stored occupancy reports to the admin dashboard.
type ReportsHandler struct {
	reports *mongodb.ReportRepo
	logger  *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter.
func NewReportsHandler(reports *mongodb.ReportRepo, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{reports: reports, logger: logger}
}

// List returns occupancy reports for a date range. Accepts month=YYYY-MM or
// start_date/end_date; defaults to the last 30 days.
func (h *ReportsHandler) List(c *gin.Context) {
	var start, end time.Time
	switch {
	case c.Query("month") != "":
		var err error
		start, end, err = availability.MonthRange(c.Query("month"))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	case c.Query("start_date") != "" || c.Query("end_date") != "":
		var err error
		start, err = parseDate(c.Query("start_date"))
		if err != nil {
			badRequest(c, "start_date must be an ISO-8601 date")
			return
		}
		end, err = parseDate(c.Query("end_date"))
		if err != nil {
			badRequest(c, "end_date must be an ISO-8601 date")
			return
		}
	default:
		end = availability.Midnight(time.Now())
		start = end.AddDate(0, 0, -30)
	}

	reports, err := h.reports.ListRange(c.Request.Context(), availability.Midnight(start), availability.Midnight(end).AddDate(0, 0, 1))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
