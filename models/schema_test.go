package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestUniqueIndexes_CoverLiveRowsOnly(t *testing.T) {
	tests := []struct {
		model  interface{}
		index  string
		fields []string
	}{
		{&Department{}, "idx_departments_live_name", []string{"name"}},
		{&Project{}, "idx_projects_live_name", []string{"name"}},
		{&Role{}, "idx_roles_live_name", []string{"name"}},
		{&Permission{}, "idx_permissions_live_route", []string{"api_path", "method"}},
		{&User{}, "idx_users_live_email", []string{"email"}},
		{&Technology{}, "idx_technologies_live_name", []string{"name"}},
		{&Status{}, "idx_statuses_live_name", []string{"name"}},
		{&ProjectType{}, "idx_project_types_live_name", []string{"name"}},
		{&Customer{}, "idx_customers_live_name", []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.index, func(t *testing.T) {
			s, err := schema.Parse(tt.model, &sync.Map{}, schema.NamingStrategy{})
			require.NoError(t, err)

			found := false
			for _, idx := range s.ParseIndexes() {
				if idx.Class != "UNIQUE" {
					continue
				}
				// every unique index must exclude soft-deleted rows
				assert.Equal(t, "is_deleted = false", idx.Where, idx.Name)
				if idx.Name != tt.index {
					continue
				}
				found = true
				var columns []string
				for _, f := range idx.Fields {
					columns = append(columns, f.DBName)
				}
				assert.ElementsMatch(t, tt.fields, columns)
			}
			assert.True(t, found, "missing unique index %s", tt.index)
		})
	}
}
