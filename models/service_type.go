// models/service_type.go
package models

// ServiceCategory is a kind of home service a worker can offer.
type ServiceCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// ServiceCategories is the fixed catalog shown by both apps.
var ServiceCategories = []ServiceCategory{
	{ID: "plumbing", Name: "Plumbing", Icon: "construct"},
	{ID: "electrical", Name: "Electrical", Icon: "flash"},
	{ID: "cleaning", Name: "Cleaning", Icon: "broom"},
	{ID: "carpentry", Name: "Carpentry", Icon: "hammer"},
	{ID: "painting", Name: "Painting", Icon: "brush"},
	{ID: "appliance_repair", Name: "Appliance Repair", Icon: "build"},
	{ID: "gardening", Name: "Gardening", Icon: "leaf"},
	{ID: "pest_control", Name: "Pest Control", Icon: "bug"},
	{ID: "laundry", Name: "Laundry", Icon: "water"},
	{ID: "moving", Name: "Moving", Icon: "cube"},
}

// IsServiceCategory reports whether id names a known category.
func IsServiceCategory(id string) bool {
	for _, c := range ServiceCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}
