package models

type Classification struct {
	ID   int    `json:"classification_id"`
	Name string `json:"classification_name"`
}

type InventoryItem struct {
	ID               int     `json:"inv_id"`
	Make             string  `json:"inv_make"`
	Model            string  `json:"inv_model"`
	Year             int     `json:"inv_year"`
	Description      string  `json:"inv_description"`
	Image            string  `json:"inv_image"`
	Thumbnail        string  `json:"inv_thumbnail"`
	Price            float64 `json:"inv_price"`
	Miles            int     `json:"inv_miles"`
	Color            string  `json:"inv_color"`
	ClassificationID int     `json:"classification_id"`

	// Joined from the classification table on reads.
	ClassificationName string `json:"classification_name,omitempty"`
}
