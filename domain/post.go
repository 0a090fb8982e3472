// server/domain/post.go
package domain

// Post is one blog entry parsed from a Content Store folder. ID is only
// meaningful within the load that produced it.
type Post struct {
	ID       int     `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Subtitle *string `json:"subtitle" yaml:"subtitle"`
	Date     string  `json:"date" yaml:"date"`
	Excerpt  string  `json:"excerpt" yaml:"excerpt"`
	Content  string  `json:"content" yaml:"content"`
	Image    *string `json:"image" yaml:"image"`
}

type Script struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Genre       string `json:"genre" yaml:"genre"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description" yaml:"description"`
}

type ShortFilm struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Year        string `json:"year" yaml:"year"`
	Duration    string `json:"duration" yaml:"duration"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
}

// Partnership is a brand-partnership case study.
type Partnership struct {
	ID          int    `json:"id" yaml:"id"`
	Brand       string `json:"brand" yaml:"brand"`
	Category    string `json:"category" yaml:"category"`
	Year        string `json:"year" yaml:"year"`
	Description string `json:"description" yaml:"description"`
	Learning    string `json:"learning" yaml:"learning"`
	Content     string `json:"content" yaml:"content"`
}
