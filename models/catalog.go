package models

// ProjectType classifies projects (e.g. outsourcing, product)
type ProjectType struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex:idx_project_types_live_name,where:is_deleted = false;not null"`
	Description string `json:"description"`
}

// Status is a project lifecycle state
type Status struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex:idx_statuses_live_name,where:is_deleted = false;not null"`
	Description string `json:"description"`
}

// Technology is a skill or stack item attached to users and projects
type Technology struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex:idx_technologies_live_name,where:is_deleted = false;not null"`
	Description string `json:"description"`
}

// Customer is the client a project is delivered for
type Customer struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex:idx_customers_live_name,where:is_deleted = false;not null"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (t *ProjectType) GetName() string { return t.Name }
func (s *Status) GetName() string { return s.Name }
func (t *Technology) GetName() string { return t.Name }
func (c *Customer) GetName() string { return c.Name }
