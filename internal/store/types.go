package store

type Blog struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	// UserID references the user who created the blog, nil when created anonymously.
	UserID *string `json:"user"`
}

// BlogUpdate is a full replacement of a blog's mutable fields.
type BlogUpdate struct {
	Title  string
	Author string
	URL    string
	Likes  int
}

type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash []byte   `json:"-"`
	Blogs        []string `json:"blogs"`
}
