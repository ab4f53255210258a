package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/services"
)

// DepartmentController handles department endpoints
type DepartmentController struct {
	departments *services.DepartmentService
	deletes     DeleteRecorder
	log         *logrus.Logger
}

func NewDepartmentController(departments *services.DepartmentService, deletes DeleteRecorder, log *logrus.Logger) *DepartmentController {
	if deletes == nil {
		deletes = noopRecorder{}
	}
	return &DepartmentController{departments: departments, deletes: deletes, log: log}
}

// RegisterRoutes registers department routes
func (dc *DepartmentController) RegisterRoutes(router *gin.RouterGroup) {
	departments := router.Group("/departments")
	{
		departments.POST("", dc.Create)
		departments.GET("", dc.List)
		departments.GET("/:id", dc.Get)
		departments.PATCH("", dc.Update)
		departments.DELETE("/:id", dc.Remove)
	}
}

func (dc *DepartmentController) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	var req dto.CreateDepartmentRequest
	if err := bind(c, &req); err != nil {
		respondError(c, dc.log, err)
		return
	}

	department, err := dc.departments.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Create department successfully", department)
}

// List returns the departments visible to the caller, paginated
func (dc *DepartmentController) List(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	departments, err := dc.departments.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	respondPage(c, dc.log, "Get departments successfully", departments)
}

func (dc *DepartmentController) Get(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	department, err := dc.departments.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get department successfully", department)
}

func (dc *DepartmentController) Update(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	var req dto.UpdateDepartmentRequest
	if err := bind(c, &req); err != nil {
		respondError(c, dc.log, err)
		return
	}
	department, err := dc.departments.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update department successfully", department)
}

func (dc *DepartmentController) Remove(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	err = dc.departments.Remove(c.Request.Context(), actor, id)
	dc.deletes.RecordDelete("department", err)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove department successfully", nil)
}
