package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/handler"
	"github.com/medrec-hq/medrec-api/internal/middleware"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/service/profile"
)

type Handler struct {
	svc  *profile.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc *profile.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/me", h.GetOwnDoctorProfile)
		doctors.PUT("/me", h.UpdateOwnDepartment)
	}

	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatientProfile)
		patients.PUT("/:id", h.UpdatePatientProfile)
		patients.DELETE("/:id", h.DeletePatientProfile)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	doctors, err := h.svc.ListDoctors(c.Request.Context(), actor)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListPatients(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	patients, err := h.svc.ListPatients(c.Request.Context(), actor)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetOwnDoctorProfile(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	p, err := h.svc.GetOwnDoctorProfile(c.Request.Context(), actor)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateOwnDepartment(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.UpdateOwnDepartment(c.Request.Context(), actor, req.DepartmentID); err != nil {
		handler.RespondError(c, err)
		return
	}

	// The new department must gate the doctor's very next request.
	h.auth.InvalidateActor(actor.UserID.String())
	c.JSON(http.StatusOK, handler.NewSuccessResponse("profile updated"))
}

func (h *Handler) GetPatientProfile(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	p, err := h.svc.GetPatientProfile(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdatePatientProfile(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.svc.UpdatePatientProfile(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// The patient's affiliation changed under them; drop their cached actor.
	h.auth.InvalidateActor(p.UserID.String())
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeletePatientProfile(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.svc.DeletePatientProfile(c.Request.Context(), actor, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse("patient deleted"))
}
