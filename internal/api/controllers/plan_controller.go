package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vamo/internal/models/request_models"
	"vamo/internal/services"
	"vamo/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// GetPlans godoc
// @Summary List travel plans
// @Description Fetch the full plan list from the planning service and replace the cached copy
// @Tags Plan
// @Produce json
// @Success 200 {array} plan_models.TravelPlan
// @Router /plans [get]
func (p *PlanController) GetPlans(c *gin.Context) {
	plans, err := p.planService.FetchPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetCurrentPlan godoc
// @Summary Get the current plan
// @Description Return the plan currently held by the store, if any
// @Tags Plan
// @Produce json
// @Success 200 {object} plan_models.TravelPlan
// @Failure 404 {object} utils.APIResponse
// @Router /plans/current [get]
func (p *PlanController) GetCurrentPlan(c *gin.Context) {
	plan := p.planService.CurrentPlan()
	if plan == nil {
		utils.RespondError(c, http.StatusNotFound, "No current plan")
		return
	}

	utils.RespondSuccess(c, plan, "Current plan fetched successfully")
}

// GetPlanById godoc
// @Summary Get a plan by ID
// @Description Fetch one plan and make it the current plan
// @Tags Plan
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} plan_models.TravelPlan
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{planId} [get]
func (p *PlanController) GetPlanById(c *gin.Context) {
	planId := c.Param("planId")
	if planId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is required")
		return
	}

	plan, err := p.planService.FetchPlan(c.Request.Context(), planId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

// UpdatePlan godoc
// @Summary Update a plan
// @Description Send a partial update; the server's returned representation replaces the cached copy
// @Tags Plan
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param request body request_models.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} plan_models.TravelPlan
// @Router /plans/{planId} [patch]
func (p *PlanController) UpdatePlan(c *gin.Context) {
	planId := c.Param("planId")
	if planId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is required")
		return
	}

	var req request_models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := p.planService.UpdatePlan(c.Request.Context(), planId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

// DeletePlan godoc
// @Summary Delete a plan
// @Description Delete the plan remotely and drop it from the cache
// @Tags Plan
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Router /plans/{planId} [delete]
func (p *PlanController) DeletePlan(c *gin.Context) {
	planId := c.Param("planId")
	if planId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is required")
		return
	}

	if err := p.planService.DeletePlan(c.Request.Context(), planId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}

// GeneratePlan godoc
// @Summary Generate a travel plan
// @Description Generate an itinerary from a natural-language request plus constraints
// @Tags Plan
// @Accept json
// @Produce json
// @Param request body request_models.GeneratePlanRequest true "Trip request"
// @Success 200 {object} plan_models.TravelPlan
// @Failure 400 {object} utils.APIResponse
// @Router /plans/generate [post]
func (p *PlanController) GeneratePlan(c *gin.Context) {
	var req request_models.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := p.planService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan generated successfully")
}

// ReviewPlan godoc
// @Summary Revise the current plan
// @Description Run one review iteration with free-text feedback; the revised plan replaces the current one
// @Tags Plan
// @Accept json
// @Produce json
// @Param request body request_models.ReviewPlanRequest true "Feedback"
// @Success 200 {object} plan_models.TravelPlan
// @Router /plans/review [post]
func (p *PlanController) ReviewPlan(c *gin.Context) {
	var req request_models.ReviewPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := p.planService.ReviewPlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan revised successfully")
}
