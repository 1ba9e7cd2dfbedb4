package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	BlogID    uint      `json:"blog_id" gorm:"index;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required"`
	BlogID  uint   `json:"blog_id" validate:"required"`
}

// CommentUpdate replaces the whole content of a comment.
type CommentUpdate struct {
	Content string `json:"content" validate:"required"`
}
