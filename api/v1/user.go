package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/services"
)

// UserController handles user and registration request endpoints
type UserController struct {
	users   *services.UserService
	exports *services.ExportService
	deletes DeleteRecorder
	log     *logrus.Logger
}

func NewUserController(users *services.UserService, exports *services.ExportService, deletes DeleteRecorder, log *logrus.Logger) *UserController {
	if deletes == nil {
		deletes = noopRecorder{}
	}
	return &UserController{users: users, exports: exports, deletes: deletes, log: log}
}

// RegisterRoutes registers user routes
func (uc *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", uc.Register)
		users.POST("/request-create", uc.RequestCreate)
		users.GET("/request-create/preview", uc.PreviewRequest)
		users.POST("/request-create/accept", uc.AcceptRequest)
		users.POST("/request-create/reject", uc.RejectRequest)
		users.GET("", uc.List)
		users.GET("/profile", uc.Profile)
		users.GET("/export", uc.Export)
		users.GET("/role/:roleId", uc.ListByRole)
		users.GET("/department/:departmentId", uc.ListByDepartment)
		users.GET("/project/:projectId", uc.ListByProject)
		users.GET("/:id", uc.Get)
		users.PATCH("", uc.Update)
		users.DELETE("/:id", uc.Remove)
	}
}

// Register creates an account and emails the generated password
func (uc *UserController) Register(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	var req dto.RegisterUserRequest
	if err := bind(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	user, err := uc.users.Register(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Register successfully !", user)
}

func (uc *UserController) RequestCreate(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	var req dto.RegisterUserRequest
	if err := bind(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	if err := uc.users.RequestCreate(c.Request.Context(), actor, req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Send request successfully", nil)
}

func (uc *UserController) PreviewRequest(c *gin.Context) {
	var req dto.RegistrationTokenRequest
	if err := bindQuery(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	claims, err := uc.users.PreviewRequest(req.Token)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Preview request successfully", claims)
}

func (uc *UserController) AcceptRequest(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	var req dto.RegistrationTokenRequest
	if err := bind(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	user, err := uc.users.AcceptRequest(c.Request.Context(), actor, req.Token)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "User created successfully.", user)
}

// RejectRequest always succeeds; a pending request lives only in its token
func (uc *UserController) RejectRequest(c *gin.Context) {
	var req dto.RegistrationTokenRequest
	_ = c.ShouldBindJSON(&req)
	respondSuccess(c, http.StatusOK, uc.users.RejectRequest(req.Token), nil)
}

func (uc *UserController) List(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	users, err := uc.users.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondPage(c, uc.log, "Get users successfully", users)
}

func (uc *UserController) Profile(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	user, err := uc.users.Profile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get profile successfully", user)
}

func (uc *UserController) Get(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	user, err := uc.users.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get user successfully", user)
}

func (uc *UserController) ListByRole(c *gin.Context) {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	users, err := uc.users.ListByRole(c.Request.Context(), roleID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondPage(c, uc.log, "Get users successfully", users)
}

func (uc *UserController) ListByDepartment(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	departmentID, err := pathID(c, "departmentId")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	users, err := uc.users.ListByDepartment(c.Request.Context(), actor, departmentID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondPage(c, uc.log, "Get users successfully", users)
}

func (uc *UserController) ListByProject(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	projectID, err := pathID(c, "projectId")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	users, err := uc.users.ListByProject(c.Request.Context(), actor, projectID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondPage(c, uc.log, "Get users successfully", users)
}

func (uc *UserController) Update(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	user, err := uc.users.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update user successfully", user)
}

func (uc *UserController) Remove(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	err = uc.users.Remove(c.Request.Context(), actor, id)
	uc.deletes.RecordDelete("user", err)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove user successfully", nil)
}

// Export downloads the users matching the query as xlsx
func (uc *UserController) Export(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	var q dto.UserExportQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, uc.log, err)
		return
	}
	sheet, err := uc.exports.Users(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	sendSheet(c, uc.log, sheet)
}
