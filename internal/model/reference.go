package model

import "time"

// Category an article belongs to. Its ID is a slug such as "technology".
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// User is the display side of an account. Credentials live with the identity
// provider, not here.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// ArticleDetail is an Article with its references resolved for display.
// A reference that no longer resolves is nil.
type ArticleDetail struct {
	*Article

	Category *Category       `json:"category"`
	Author   *User           `json:"author"`
	Comments []CommentDetail `json:"comments"`
}

type CommentDetail struct {
	ID        string    `json:"id"`
	User      *User     `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
