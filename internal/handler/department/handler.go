package department

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medrec-hq/medrec-api/internal/handler"
	"github.com/medrec-hq/medrec-api/internal/middleware"
	"github.com/medrec-hq/medrec-api/internal/model"
	"github.com/medrec-hq/medrec-api/internal/service/department"
)

type Handler struct {
	svc *department.Service
}

func NewHandler(svc *department.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the department endpoints. Listing is public; the
// rest requires authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	departments := r.Group("/departments")
	{
		departments.GET("", h.ListDepartments)

		protected := departments.Group("", auth.Authenticate())
		protected.POST("", h.CreateDepartment)
		protected.GET("/:id/doctors", h.ListDoctors)
		protected.GET("/:id/patients", h.ListPatients)
	}
}

func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(departments))
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dept, err := h.svc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dept))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	actor, ok := handler.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	doctors, err := h.svc.ListDoctors(c.Request.Context(), actor, id)
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

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	patients, err := h.svc.ListPatients(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
