package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/service"
)

// DashboardService is the aggregation surface consumed by the stats
// endpoint. *service.DashboardService implements it.
type DashboardService interface {
	Stats(ctx context.Context) (service.DashboardStats, error)
}

// DashboardHandler serves the submission volume dashboard.
type DashboardHandler struct {
	Svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

type recentPart struct {
	ID                     string    `json:"id"`
	GuarantorName          string    `json:"guarantor_name"`
	RelationshipToBorrower string    `json:"relationship_to_borrower"`
	RecordStatus           string    `json:"record_status"`
	SubmissionTimestamp    time.Time `json:"submission_timestamp"`
	SubmittedBy            string    `json:"submitted_by,omitempty"`
}

type statsResp struct {
	TotalSubmissions    int64        `json:"total_submissions"`
	PendingVerification int64        `json:"pending_verification"`
	Verified            int64        `json:"verified"`
	Rejected            int64        `json:"rejected"`
	RecentSubmissions   []recentPart `json:"recent_submissions"`
}

// Stats handles GET /v1/dashboard/stats. Every call re-queries the
// store; nothing here is cached.
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}

	recent := make([]recentPart, 0, len(stats.Recent))
	for _, r := range stats.Recent {
		recent = append(recent, recentPart{
			ID:                     r.ID,
			GuarantorName:          r.GuarantorName,
			RelationshipToBorrower: r.RelationshipToBorrower,
			RecordStatus:           r.RecordStatus,
			SubmissionTimestamp:    r.SubmissionTimestamp,
			SubmittedBy:            r.SubmittedBy,
		})
	}
	return c.JSON(http.StatusOK, statsResp{
		TotalSubmissions:    stats.TotalSubmissions,
		PendingVerification: stats.PendingVerification,
		Verified:            stats.Verified,
		Rejected:            stats.Rejected,
		RecentSubmissions:   recent,
	})
}
