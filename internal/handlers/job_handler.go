package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

// RegisterRoutes регистрирует маршруты вакансий.
// Дашборд работодателя и модерация живут под /employer и /admin,
// чтобы не конфликтовать с параметром :id в группе /jobs.
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.ListPublic)
		jobs.GET("/:id", optionalAuthMW, h.Get)

		jobs.POST("", authMW, middleware.RequireRoles(models.UserRoleEmployer), h.Create)
		jobs.PATCH("/:id", authMW, middleware.RequireRoles(models.UserRoleEmployer), h.Update)
		jobs.DELETE("/:id", authMW, middleware.RequireRoles(models.UserRoleEmployer), h.Delete)
		jobs.POST("/:id/close", authMW, middleware.RequireRoles(models.UserRoleEmployer), h.Close)
	}

	employer := rg.Group("/employer")
	employer.Use(authMW, middleware.RequireRoles(models.UserRoleEmployer))
	{
		employer.GET("/dashboard", h.EmployerDashboard)
	}

	admin := rg.Group("/admin")
	admin.Use(authMW, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/jobs", h.AdminList)
		admin.PATCH("/jobs/:id/status", h.TransitionStatus)
	}
}

func (h *JobHandler) ListPublic(c *gin.Context) {
	var query dto.JobSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)
	db := h.GetDB(c)

	response, err := h.jobService.ListPublic(db, &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) Get(c *gin.Context) {
	db := h.GetDB(c)

	// Анонимному посетителю видны только одобренные вакансии
	requesterID := middleware.GetUserID(c)
	requesterRole := middleware.GetUserRole(c)

	response, err := h.jobService.Get(db, c.Param("id"), requesterID, requesterRole)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.jobService.Create(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *JobHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.jobService.Update(db, c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	if err := h.jobService.Delete(db, c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

func (h *JobHandler) Close(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	response, err := h.jobService.Close(db, c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) EmployerDashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	response, err := h.jobService.EmployerDashboard(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) AdminList(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	db := h.GetDB(c)

	status := models.JobStatus(c.Query("status"))

	response, err := h.jobService.AdminList(db, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) TransitionStatus(c *gin.Context) {
	var req dto.TransitionJobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.jobService.TransitionStatus(db, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
