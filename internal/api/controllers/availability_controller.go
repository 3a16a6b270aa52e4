package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"veritrip/internal/models/request_models"
	"veritrip/internal/models/response_models"
	"veritrip/internal/services"
	"veritrip/pkg/utils"
)

type AvailabilityController struct {
	availabilityService services.AvailabilityServiceInterface
}

func NewAvailabilityController(availabilityService services.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		availabilityService: availabilityService,
	}
}

// AvailabilityReport godoc
// @Summary Build an availability report for scheduled visits
// @Tags Availability
// @Accept json
// @Produce json
// @Success 200 {object} response_models.AvailabilityReport
// @Failure 400 {object} utils.APIResponse
// @Router /places/availability/report [post]
func (a *AvailabilityController) AvailabilityReport(c *gin.Context) {
	var req request_models.AvailabilityReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	visits := make([]services.ScheduledVisit, 0, len(req.Entries))
	for _, entry := range req.Entries {
		scheduledAt, err := time.Parse("2006-01-02 15:04", entry.ScheduledAt)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest,
				"Invalid scheduled_at for "+entry.Name+" (expected 2006-01-02 15:04)")
			return
		}
		visits = append(visits, services.ScheduledVisit{
			Place: &response_models.VerifiedPlace{
				Name:           entry.Name,
				BusinessStatus: entry.BusinessStatus,
				OpeningHours:   entry.OpeningHours,
			},
			ScheduledAt: scheduledAt,
		})
	}

	buckets := a.availabilityService.CheckBatch(visits)
	report := a.availabilityService.BuildReport(buckets)

	utils.RespondSuccess(c, report, "Availability report generated")
}
