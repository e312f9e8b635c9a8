package models

import "time"

// FeedPost is a post as the feed presents it to a viewer: the stored fields
// plus the viewer-relative ownership flag and the resolved owner email.
type FeedPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Caption   string    `json:"caption"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
	IsOwner   bool      `json:"is_owner"`
	Email     string    `json:"email"`
}
