package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// RegisterRoutes регистрирует маршруты откликов
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := rg.Group("/jobs")
	jobs.Use(authMW)
	{
		jobs.POST("/:id/apply", middleware.RequireRoles(models.UserRoleJobseeker), h.Apply)
		jobs.DELETE("/:id/apply", middleware.RequireRoles(models.UserRoleJobseeker), h.Withdraw)
		jobs.GET("/:id/applications", middleware.RequireRoles(models.UserRoleEmployer), h.ListForJob)
	}

	applications := rg.Group("/applications")
	applications.Use(authMW)
	{
		applications.GET("/my", middleware.RequireRoles(models.UserRoleJobseeker), h.ListMine)
		applications.PATCH("/:id/status", middleware.RequireRoles(models.UserRoleEmployer), h.UpdateStatus)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.applicationService.Apply(db, c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	response, err := h.applicationService.Withdraw(db, c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	responses, err := h.applicationService.ListForJob(db, c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": responses})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	responses, err := h.applicationService.ListForApplicant(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": responses})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.applicationService.UpdateStatus(db, c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
