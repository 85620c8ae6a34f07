package models

import "time"

// Post is a blog post. AuthorID references a User but is not enforced
// as a foreign key by the store.
type Post struct {
	ID        int
	AuthorID  int
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Likes     int
	Dislikes  int
}

// PostResponse is the public view of a Post returned by the JSON API.
type PostResponse struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
}

// Public returns the JSON view of the post.
func (p *Post) Public() PostResponse {
	return PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Likes:     p.Likes,
		Dislikes:  p.Dislikes,
	}
}

// PublicPosts converts a slice of posts into their public views.
func PublicPosts(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].Public())
	}
	return out
}
