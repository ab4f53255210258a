package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/services"
)

// CatalogController serves the five CRUD routes of one catalog entity
type CatalogController[T any, P services.CatalogEntry[T]] struct {
	path    string
	catalog *services.CatalogService[T, P]
	deletes DeleteRecorder
	log     *logrus.Logger
}

// NewCatalogController mounts catalog at path, e.g. "/technologies"
func NewCatalogController[T any, P services.CatalogEntry[T]](path string, catalog *services.CatalogService[T, P], deletes DeleteRecorder, log *logrus.Logger) *CatalogController[T, P] {
	if deletes == nil {
		deletes = noopRecorder{}
	}
	return &CatalogController[T, P]{path: path, catalog: catalog, deletes: deletes, log: log}
}

func (cc *CatalogController[T, P]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(cc.path)
	{
		group.POST("", cc.Create)
		group.GET("", cc.List)
		group.GET("/:id", cc.Get)
		group.PATCH("", cc.Update)
		group.DELETE("/:id", cc.Remove)
	}
}

func (cc *CatalogController[T, P]) Create(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	var req dto.CatalogRequest
	if err := bind(c, &req); err != nil {
		respondError(c, cc.log, err)
		return
	}
	entity, err := cc.catalog.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Create "+cc.catalog.Label()+" successfully", entity)
}

func (cc *CatalogController[T, P]) List(c *gin.Context) {
	rows, err := cc.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondPage(c, cc.log, "Get "+cc.catalog.Label()+" list successfully", rows)
}

func (cc *CatalogController[T, P]) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	entity, err := cc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get "+cc.catalog.Label()+" successfully", entity)
}

func (cc *CatalogController[T, P]) Update(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	var req dto.UpdateCatalogRequest
	if err := bind(c, &req); err != nil {
		respondError(c, cc.log, err)
		return
	}
	entity, err := cc.catalog.Update(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Update "+cc.catalog.Label()+" successfully", entity)
}

func (cc *CatalogController[T, P]) Remove(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	err = cc.catalog.Remove(c.Request.Context(), actor, id)
	cc.deletes.RecordDelete(cc.catalog.Label(), err)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Remove "+cc.catalog.Label()+" successfully", nil)
}
