package models

// All lists every persisted model, in migration order
func All() []interface{} {
	return []interface{}{
		&Permission{},
		&Role{},
		&Technology{},
		&Status{},
		&ProjectType{},
		&Customer{},
		&User{},
		&Project{},
		&Department{},
	}
}
