package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"veritrip/internal/models/request_models"
	"veritrip/internal/models/response_models"
	"veritrip/internal/services"
	"veritrip/pkg/utils"
)

type ValidationController struct {
	pipelineService   services.PipelineServiceInterface
	validationService services.ValidationServiceInterface
}

func NewValidationController(
	pipelineService services.PipelineServiceInterface,
	validationService services.ValidationServiceInterface) *ValidationController {
	return &ValidationController{
		pipelineService:   pipelineService,
		validationService: validationService,
	}
}

// ValidateItinerary godoc
// @Summary Validate and enrich a full itinerary
// @Description Run every activity and restaurant through place matching and availability checking
// @Tags Validation
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} response_models.ValidateItineraryResponse
// @Failure 400 {object} utils.APIResponse
// @Router /itineraries/{id}/validate [post]
func (v *ValidationController) ValidateItinerary(c *gin.Context) {
	itineraryID := c.Param("id")
	if itineraryID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Itinerary ID is required")
		return
	}

	var req request_models.ValidateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts := services.DefaultPipelineOptions()
	if req.Options != nil {
		if req.Options.MinConfidence > 0 {
			opts.MinConfidence = req.Options.MinConfidence
		}
		opts.MaxRegenerationAttempts = req.Options.MaxRegenerationAttempts
	}

	p := v.pipelineService
	p.ResetStats()

	days, err := p.ValidateActivities(c.Request.Context(), req.Destination, req.Days, itineraryID, opts)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	restaurants, err := p.ValidateRestaurants(c.Request.Context(), req.Destination, req.Restaurants, itineraryID, opts)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ValidateItineraryResponse{
		ItineraryID: itineraryID,
		Days:        days,
		Restaurants: restaurants,
		Stats:       p.Stats(),
	}, "Itinerary validated successfully")
}

func (v *ValidationController) ValidatePlace(c *gin.Context) {
	var req request_models.ValidatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := v.validationService.ValidatePlace(c.Request.Context(), req.Place, req.Destination, req.ItineraryID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, outcome, "Place validation finished")
}

func (v *ValidationController) TopPlaces(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	places, err := v.validationService.TopPlaces(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Registry places fetched successfully")
}
