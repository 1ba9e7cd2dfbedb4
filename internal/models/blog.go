package models

import "time"

type Blog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"index;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	Published bool      `json:"published" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	CreatorID uint      `json:"creator_id" gorm:"index;not null"`
	Creator   *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Comments  []Comment `json:"comments,omitempty" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
}

// BlogInput is the payload for a new blog. Published defaults to true when
// omitted.
type BlogInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	Body      string `json:"body" validate:"required"`
	Published *bool  `json:"published"`
}

func (in BlogInput) IsPublished() bool {
	return in.Published == nil || *in.Published
}

// BlogPatch is a partial update: only non-nil fields are written.
type BlogPatch struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=255"`
	Body      *string `json:"body" validate:"omitnil,min=1"`
	Published *bool   `json:"published"`
}

func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Published == nil
}

func (p BlogPatch) Apply(b *Blog) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Body != nil {
		b.Body = *p.Body
	}
	if p.Published != nil {
		b.Published = *p.Published
	}
}

// Columns maps the present fields to their column names for an UPDATE.
func (p BlogPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Body != nil {
		cols["body"] = *p.Body
	}
	if p.Published != nil {
		cols["published"] = *p.Published
	}
	return cols
}
