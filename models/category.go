package models

// ============================================================================
// USER CATEGORY MODEL
// ============================================================================

type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// DefaultCategories is the set seeded on first login, colors included.
var DefaultCategories = []Category{
	{Name: "Food", Color: "#FF6384"},
	{Name: "Transportation", Color: "#36A2EB"},
	{Name: "Entertainment", Color: "#FFCE56"},
	{Name: "Housing", Color: "#4BC0C0"},
	{Name: "Utilities", Color: "#9966FF"},
	{Name: "Healthcare", Color: "#FF9F40"},
	{Name: "Shopping", Color: "#C9CBCF"},
	{Name: "Other", Color: "#36A2EB"},
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type RecolorCategoryRequest struct {
	Color string `json:"color" binding:"required"`
}
