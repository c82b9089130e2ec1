package domain

// Classification groups vehicles on the navigation menu (e.g. "SUV").
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle is one inventory row.
type Vehicle struct {
	ID                 int64   `json:"inv_id"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int     `json:"inv_miles"`
	Color              string  `json:"inv_color"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name,omitempty"`
}

// Name is the display name used in titles and notices.
func (v *Vehicle) Name() string {
	return v.Make + " " + v.Model
}
