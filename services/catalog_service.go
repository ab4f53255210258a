package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/models"
)

// CatalogEntry is the pointer side of a catalog model
type CatalogEntry[T any] interface {
	*T
	GetName() string
	StampCreate(actorID string)
	StampUpdate(actorID string)
}

// CatalogService serves the lookup entities projects point at: customers,
// statuses, technologies and project types.
type CatalogService[T any, P CatalogEntry[T]] struct {
	label      string
	store      catalogStore[T]
	referenced func(ctx context.Context, id string) (bool, error)
	tx         Transactor
	fill       func(entity P, req dto.UpdateCatalogRequest)
	log        *logrus.Logger
}

func newCatalogService[T any, P CatalogEntry[T]](label string, store catalogStore[T],
	referenced func(ctx context.Context, id string) (bool, error), tx Transactor,
	fill func(entity P, req dto.UpdateCatalogRequest), log *logrus.Logger) *CatalogService[T, P] {
	return &CatalogService[T, P]{
		label:      label,
		store:      store,
		referenced: referenced,
		tx:         tx,
		fill:       fill,
		log:        log,
	}
}

// NewCustomerService creates the customer catalog
func NewCustomerService(store catalogStore[models.Customer], guard RelationGuard, tx Transactor, log *logrus.Logger) *CatalogService[models.Customer, *models.Customer] {
	return newCatalogService[models.Customer, *models.Customer]("customer", store, guard.CustomerReferenced, tx,
		func(c *models.Customer, req dto.UpdateCatalogRequest) {
			setName(&c.Name, &c.Description, req)
			if req.Email != nil {
				c.Email = *req.Email
			}
			if req.Phone != nil {
				c.Phone = *req.Phone
			}
		}, log)
}

// NewStatusService creates the project status catalog
func NewStatusService(store catalogStore[models.Status], guard RelationGuard, tx Transactor, log *logrus.Logger) *CatalogService[models.Status, *models.Status] {
	return newCatalogService[models.Status, *models.Status]("status", store, guard.StatusReferenced, tx,
		func(s *models.Status, req dto.UpdateCatalogRequest) { setName(&s.Name, &s.Description, req) }, log)
}

// NewTechnologyService creates the technology catalog
func NewTechnologyService(store catalogStore[models.Technology], guard RelationGuard, tx Transactor, log *logrus.Logger) *CatalogService[models.Technology, *models.Technology] {
	return newCatalogService[models.Technology, *models.Technology]("technology", store, guard.TechnologyReferenced, tx,
		func(t *models.Technology, req dto.UpdateCatalogRequest) { setName(&t.Name, &t.Description, req) }, log)
}

// NewProjectTypeService creates the project type catalog
func NewProjectTypeService(store catalogStore[models.ProjectType], guard RelationGuard, tx Transactor, log *logrus.Logger) *CatalogService[models.ProjectType, *models.ProjectType] {
	return newCatalogService[models.ProjectType, *models.ProjectType]("project type", store, guard.ProjectTypeReferenced, tx,
		func(t *models.ProjectType, req dto.UpdateCatalogRequest) { setName(&t.Name, &t.Description, req) }, log)
}

func setName(name, description *string, req dto.UpdateCatalogRequest) {
	if req.Name != nil {
		*name = *req.Name
	}
	if req.Description != nil {
		*description = *req.Description
	}
}

// Label is the capitalized entity name used in messages
func (s *CatalogService[T, P]) Label() string {
	return strings.ToUpper(s.label[:1]) + s.label[1:]
}

func (s *CatalogService[T, P]) Create(ctx context.Context, actor access.Actor, req dto.CatalogRequest) (*T, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	entity := P(new(T))
	s.fill(entity, dto.UpdateCatalogRequest{
		Name:        &req.Name,
		Description: &req.Description,
		Email:       &req.Email,
		Phone:       &req.Phone,
	})
	entity.StampCreate(actor.ID)

	if err := s.store.Create(ctx, (*T)(entity)); err != nil {
		return nil, common.Internal(err)
	}
	s.log.WithFields(logrus.Fields{"entity": s.label, "name": req.Name}).Info("✅ Catalog entry created")
	return (*T)(entity), nil
}

func (s *CatalogService[T, P]) List(ctx context.Context) ([]T, error) {
	rows, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(err)
	}
	return rows, nil
}

func (s *CatalogService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	entity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Not found "+s.label)
	}
	return entity, nil
}

func (s *CatalogService[T, P]) Update(ctx context.Context, actor access.Actor, req dto.UpdateCatalogRequest) (*T, error) {
	entity, err := s.store.FindByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "Not found "+s.label)
	}
	p := P(entity)
	if req.Name != nil && *req.Name != p.GetName() {
		if err := s.ensureNameFree(ctx, *req.Name); err != nil {
			return nil, err
		}
	}

	s.fill(p, req)
	p.StampUpdate(actor.ID)
	if err := s.store.Update(ctx, entity); err != nil {
		return nil, common.Internal(err)
	}
	return entity, nil
}

// Remove soft-deletes an entry no project references
func (s *CatalogService[T, P]) Remove(ctx context.Context, actor access.Actor, id string) error {
	return guardedRemove(ctx, s.tx, id, actor.ID,
		s.referenced,
		"Can't remove "+s.label+" because it's linked to project",
		"Not found "+s.label,
		s.store.MarkDeleted,
	)
}

// ExistAll lets a catalog serve as a ReferenceChecker
func (s *CatalogService[T, P]) ExistAll(ctx context.Context, ids []string) (bool, error) {
	return s.store.ExistAll(ctx, ids)
}

func (s *CatalogService[T, P]) ensureNameFree(ctx context.Context, name string) error {
	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return common.Internal(err)
	}
	if exists {
		return common.Validation("%s already exists", s.Label())
	}
	return nil
}
