package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/models"
	"gorm.io/gorm"
)

// DBConnection pairs a database handle with the models it owns
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Models []interface{}
	log    *logrus.Logger
}

// NewDBConnection connects to dbURL and prepares every application model
func NewDBConnection(name, dbURL string, log *logrus.Logger) (*DBConnection, error) {
	db, err := Connect(dbURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}
	return &DBConnection{
		DB:     db,
		Name:   name,
		Models: models.All(),
		log:    log,
	}, nil
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	c.log.Infof("Migrating %s database schema...", c.Name)
	if err := c.dropLegacyIndexes(); err != nil {
		return err
	}
	if err := c.DB.AutoMigrate(c.Models...); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	c.log.Infof("✅ %s database schema migrated", c.Name)
	return nil
}

// legacyIndexes are unique indexes that also covered soft-deleted rows. They
// are replaced by partial indexes over live rows.
var legacyIndexes = []struct {
	model interface{}
	name  string
}{
	{&models.Department{}, "idx_departments_name"},
	{&models.Project{}, "idx_projects_name"},
	{&models.Role{}, "idx_roles_name"},
	{&models.Permission{}, "idx_permission_route"},
	{&models.User{}, "idx_users_email"},
	{&models.Technology{}, "idx_technologies_name"},
	{&models.Status{}, "idx_statuses_name"},
	{&models.ProjectType{}, "idx_project_types_name"},
	{&models.Customer{}, "idx_customers_name"},
}

func (c *DBConnection) dropLegacyIndexes() error {
	migrator := c.DB.Migrator()
	for _, idx := range legacyIndexes {
		if !migrator.HasTable(idx.model) || !migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.DropIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", idx.name, err)
		}
		c.log.Infof("Dropped legacy index %s", idx.name)
	}
	return nil
}

// Close releases the underlying pool
func (c *DBConnection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
