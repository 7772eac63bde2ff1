package models

// Category groups products in the catalog
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
