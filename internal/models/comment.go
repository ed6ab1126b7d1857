package models

import "time"

// Comment is a user-authored note. ID and both timestamps are assigned by
// the store and never taken from the client.
type Comment struct {
	ID        int64     `gorm:"column:post_id;primaryKey;autoIncrement" json:"post_id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentPage is one page of comments plus the total row count, as returned
// by paginated listing. It is never persisted.
type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
