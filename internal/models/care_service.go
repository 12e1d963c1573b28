package models

// CareService is an entry of the service catalog managed by admins.
type CareService struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `json:"name" gorm:"uniqueIndex"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active" gorm:"default:true"`
}

// DashboardSummary is the admin overview.
type DashboardSummary struct {
	Users          int64            `json:"users"`
	FamilyMembers  int64            `json:"familyMembers"`
	Pets           int64            `json:"pets"`
	ElderlyPersons int64            `json:"elderlyPersons"`
	Appointments   int64            `json:"appointments"`
	Payments       int64            `json:"payments"`
	Revenue        float64          `json:"revenue"`
	ServiceUsage   map[string]int64 `json:"serviceUsage"`
	GeneratedAt    int64            `json:"generatedAt"`
}
