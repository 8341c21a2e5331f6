package domain

import "time"

// User is an account holder. The password field carries the bcrypt hash,
// never the plaintext.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Content is a saved reference to something on the web.
type Content struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Type      string    `json:"type"`
	Tags      []Tag     `json:"tags"`
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tag is a named label attachable to content.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ShareLink grants public read access to all of one user's content.
// The hash is the whole credential. At most one per user.
type ShareLink struct {
	ID      string `json:"id"`
	Hash    string `json:"hash"`
	OwnerID string `json:"userId"`
}

// SharedStash is the public view behind a share link.
type SharedStash struct {
	Username string    `json:"username"`
	Content  []Content `json:"content"`
}
