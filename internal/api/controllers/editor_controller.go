package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vamo/internal/models/request_models"
	"vamo/internal/services"
	"vamo/pkg/utils"
)

type EditorController struct {
	editorService services.EditorServiceInterface
	planService   services.PlanServiceInterface
}

func NewEditorController(editorService services.EditorServiceInterface, planService services.PlanServiceInterface) *EditorController {
	return &EditorController{
		editorService: editorService,
		planService:   planService,
	}
}

// StartSession godoc
// @Summary Start an edit session
// @Description Derive an editable view of the current plan; activity ids are valid for this session only
// @Tags Editor
// @Produce json
// @Success 200 {object} services.EditSession
// @Failure 404 {object} utils.APIResponse
// @Router /editor/sessions [post]
func (e *EditorController) StartSession(c *gin.Context) {
	plan := e.planService.CurrentPlan()
	if plan == nil {
		utils.RespondError(c, http.StatusNotFound, "No current plan to edit")
		return
	}

	sess, err := e.editorService.StartSession(plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sess, "Edit session started")
}

// GetSession godoc
// @Summary Get an edit session
// @Tags Editor
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} services.EditSession
// @Router /editor/sessions/{sessionId} [get]
func (e *EditorController) GetSession(c *gin.Context) {
	sess, err := e.editorService.GetSession(c.Param("sessionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sess, "Edit session fetched")
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Description Appends a user-added activity and recomputes that day's cost
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.AddActivityRequest true "Day and activity"
// @Success 200 {object} plan_models.EditableActivity
// @Router /editor/sessions/{sessionId}/add-activity [post]
func (e *EditorController) AddActivity(c *gin.Context) {
	var req request_models.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	added, err := e.editorService.AddActivity(c.Param("sessionId"), req.Day, req.Activity)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, added, "Activity added")
}

// UpdateActivity godoc
// @Summary Edit an activity
// @Description Applies a partial edit; fails with 409 when the activity is locked
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.UpdateActivityRequest true "Day, index and patch"
// @Success 200 {object} utils.APIResponse
// @Router /editor/sessions/{sessionId}/update-activity [post]
func (e *EditorController) UpdateActivity(c *gin.Context) {
	var req request_models.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := e.editorService.UpdateActivity(c.Param("sessionId"), req.Day, req.Index, req.Patch); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Activity updated")
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Description Removes an activity and recomputes that day's cost; fails with 409 when locked
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.DeleteActivityRequest true "Day and index"
// @Success 200 {object} utils.APIResponse
// @Router /editor/sessions/{sessionId}/delete-activity [post]
func (e *EditorController) DeleteActivity(c *gin.Context) {
	var req request_models.DeleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := e.editorService.DeleteActivity(c.Param("sessionId"), req.Day, req.Index); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Activity deleted")
}

// SetActivityLock godoc
// @Summary Lock or unlock an activity
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.SetActivityLockRequest true "Day, index and lock state"
// @Success 200 {object} utils.APIResponse
// @Router /editor/sessions/{sessionId}/lock-activity [post]
func (e *EditorController) SetActivityLock(c *gin.Context) {
	var req request_models.SetActivityLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := e.editorService.SetActivityLock(c.Param("sessionId"), req.Day, req.Index, req.Locked); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Activity lock updated")
}

// ToggleDay godoc
// @Summary Collapse or expand a day
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.ToggleDayRequest true "Day and expanded state"
// @Success 200 {object} utils.APIResponse
// @Router /editor/sessions/{sessionId}/toggle-day [post]
func (e *EditorController) ToggleDay(c *gin.Context) {
	var req request_models.ToggleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := e.editorService.ToggleDay(c.Param("sessionId"), req.Day, req.Expanded); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Day toggled")
}

// SaveSession godoc
// @Summary Save an edit session
// @Description Converts the session back to a canonical plan, resums total_cost, installs it as the current plan, and discards the session
// @Tags Editor
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} plan_models.TravelPlan
// @Router /editor/sessions/{sessionId}/save [post]
func (e *EditorController) SaveSession(c *gin.Context) {
	plan, err := e.editorService.CloseSession(c.Param("sessionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// Per-day costs are maintained by the edit operations; the plan-level
	// total is only resummed here, on the persist path.
	plan.RecomputeTotalCost()
	e.planService.SetCurrentPlan(plan)

	utils.RespondSuccess(c, plan, "Plan saved")
}
