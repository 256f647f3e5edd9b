package model

// All lists every model managed by AutoMigrate, parents before children
func All() []interface{} {
	return []interface{}{
		&User{},
		&SessionToken{},
		&University{},
		&Program{},
		&Application{},
		&CronJobLog{},
		&AdminAuditLog{},
	}
}
