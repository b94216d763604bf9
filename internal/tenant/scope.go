package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single company. Every list/read in the
// scheduling modules is composed with this.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
