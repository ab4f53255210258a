package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/middleware"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/utils"
)

// DeleteRecorder counts soft-delete attempts
type DeleteRecorder interface {
	RecordDelete(entity string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordDelete(string, error) {}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError writes err in the error envelope. Unexpected errors are logged
// and reported as Internal.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	appErr := common.AsError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.FromGin(log, c).WithError(err).Error("❌ Request failed")
	}
	body := gin.H{
		"status":  "error",
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.StatusCode, body)
}

// bind decodes the JSON body into req, reporting validator failures as ValidationFailure
func bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Validation("Invalid request body")
	}
	fields := make(map[string]string, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		}
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}
	appErr := common.Validation("%s", strings.Join(messages, "; "))
	appErr.Details = fields
	return appErr
}

// pathID reads a route parameter that must be a record id
func pathID(c *gin.Context, name string) (string, error) {
	id := c.Param(name)
	if !models.IsValidID(id) {
		return "", common.InvalidID()
	}
	return id, nil
}

// actorOf returns the caller resolved by the auth gate
func actorOf(c *gin.Context) (access.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return access.Actor{}, common.Unauthorized("Token is invalid or expired")
	}
	return actor, nil
}

// respondPage paginates items by the page, limit and qs query parameters
func respondPage[T any](c *gin.Context, log logrus.FieldLogger, message string, items []T) {
	var q dto.ListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, log, err)
		return
	}
	page, err := utils.Paginate(items, q.Page, q.Limit, q.QS)
	if err != nil {
		respondError(c, log, common.Validation("Invalid qs: %v", err))
		return
	}
	respondSuccess(c, http.StatusOK, message, page)
}
