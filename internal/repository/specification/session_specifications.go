package specification

import "gorm.io/gorm"

// BySessionID filters message rows by their owning session.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByRoles keeps only messages with one of the given roles.
type ByRoles struct {
	Roles []string
}

func (s ByRoles) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role IN ?", s.Roles)
}

// ExcludeRoles drops messages with any of the given roles.
type ExcludeRoles struct {
	Roles []string
}

func (s ExcludeRoles) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role NOT IN ?", s.Roles)
}
