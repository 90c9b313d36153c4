package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "price:update"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Update Price"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Price management
	{Code: "price:view", Name: "View All Prices"},
	{Code: "price:update", Name: "Update Price"},
	{Code: "price:export", Name: "Export Prices"},
	{Code: "price:import", Name: "Import Prices"},
	// Product management
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "product:export", Name: "Export Products"},
	// Activity log
	{Code: "activity:view", Name: "View Activity Log"},
}
