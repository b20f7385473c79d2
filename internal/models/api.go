package models

// ArtworkFilters holds the query parameters accepted by the artworks endpoint.
type ArtworkFilters struct {
	Artist string
	// For Pagination
	Limit  int
	Offset int
}

// ArtworkResponse is the JSON body served for a page of artworks.
type ArtworkResponse struct {
	Data       []ArtworkRow `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// ArtworkRow is an artwork joined with the artist it belongs to.
type ArtworkRow struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Image  string `json:"image,omitempty"`
}

// ArtistRow is one artist with its scrape status and artwork count.
type ArtistRow struct {
	Name     string `json:"name"`
	Link     string `json:"link"`
	Status   string `json:"status"`
	Artworks int    `json:"artworks"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	Total       int `json:"total"`
}
