package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/report"
	"github.com/staffhub-api/services"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projects *services.ProjectService
	exports  *services.ExportService
	deletes  DeleteRecorder
	log      *logrus.Logger
}

func NewProjectController(projects *services.ProjectService, exports *services.ExportService, deletes DeleteRecorder, log *logrus.Logger) *ProjectController {
	if deletes == nil {
		deletes = noopRecorder{}
	}
	return &ProjectController{projects: projects, exports: exports, deletes: deletes, log: log}
}

// RegisterRoutes registers project routes
func (pc *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.POST("", pc.Create)
		projects.GET("", pc.List)
		projects.GET("/export", pc.Export)
		projects.GET("/department/:departmentId", pc.ListByDepartment)
		projects.GET("/user/:userId", pc.ListByUser)
		projects.GET("/:id", pc.Get)
		projects.PATCH("", pc.Update)
		projects.DELETE("/:id", pc.Remove)
	}
}

func (pc *ProjectController) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	var req dto.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		respondError(c, pc.log, err)
		return
	}
	project, err := pc.projects.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Create project successfully", project)
}

func (pc *ProjectController) List(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	projects, err := pc.projects.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondPage(c, pc.log, "Get projects successfully", projects)
}

func (pc *ProjectController) Get(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	project, err := pc.projects.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get project successfully", project)
}

func (pc *ProjectController) ListByDepartment(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	departmentID, err := pathID(c, "departmentId")
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	projects, err := pc.projects.ListByDepartment(c.Request.Context(), actor, departmentID)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondPage(c, pc.log, "Get projects successfully", projects)
}

func (pc *ProjectController) ListByUser(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	projects, err := pc.projects.ListByUser(c.Request.Context(), actor, userID)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondPage(c, pc.log, "Get projects successfully", projects)
}

func (pc *ProjectController) Update(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	var req dto.UpdateProjectRequest
	if err := bind(c, &req); err != nil {
		respondError(c, pc.log, err)
		return
	}
	project, err := pc.projects.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update project successfully", project)
}

func (pc *ProjectController) Remove(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	err = pc.projects.Remove(c.Request.Context(), actor, id)
	pc.deletes.RecordDelete("project", err)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove project successfully", nil)
}

// Export downloads the projects visible to the caller as xlsx
func (pc *ProjectController) Export(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	var q dto.ProjectExportQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, pc.log, err)
		return
	}
	sheet, err := pc.exports.Projects(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	sendSheet(c, pc.log, sheet)
}

// sendSheet renders sheet into memory first so a render failure still gets a JSON error
func sendSheet(c *gin.Context, log logrus.FieldLogger, sheet *report.Sheet) {
	var buf bytes.Buffer
	if err := report.Write(&buf, sheet); err != nil {
		respondError(c, log, common.Internal(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename(time.Now())))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
