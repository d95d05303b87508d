package model

// CatalogEntry is a static showcase item of the generated music catalog
type CatalogEntry struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Creator   string   `json:"creator"`
	Tags      []string `json:"tags"`
	ImagePath string   `json:"imagePath"`
}
