package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService    services.UserService
	companyService services.CompanyService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, companyService services.CompanyService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		userService:    userService,
		companyService: companyService,
	}
}

// RegisterRoutes регистрирует маршруты профиля пользователя и компании
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMW)
	{
		users.GET("/me", h.Me)

		employer := users.Group("/employer")
		employer.Use(middleware.RequireRoles(models.UserRoleEmployer))
		{
			employer.GET("/company", h.GetCompany)
			employer.PATCH("/company", h.UpdateCompany)
		}
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	response, err := h.userService.GetProfile(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) GetCompany(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	company, err := h.companyService.GetForEmployer(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *UserHandler) UpdateCompany(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	company, err := h.companyService.UpdateForEmployer(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}
