package services

import (
	"context"
	"errors"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct{ db *gorm.DB }

func NewCommentService(db *gorm.DB) *CommentService { return &CommentService{db: db} }

func commentNotFound(id uint) error {
	return apperr.Newf(apperr.CodeNotFound, "Comment with id %d not found", id)
}

// Create checks that the blog exists before inserting, in the same
// transaction.
func (s *CommentService) Create(ctx context.Context, in models.CommentInput, authorID uint) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  in.Content,
		BlogID:   in.BlogID,
		AuthorID: authorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Blog{}).Where("id = ?", in.BlogID).Count(&count).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "check blog")
		}
		if count == 0 {
			return blogNotFound(in.BlogID)
		}
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "create comment")
		}
		if err := tx.Preload("Author").First(comment, comment.ID).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "load comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByBlog(ctx context.Context, blogID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("blog_id = ?", blogID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list comments")
	}
	return comments, nil
}

// Get returns nil when the comment does not exist.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "load comment")
	}
	return &c, nil
}

func authoredBy(tx *gorm.DB, id, actingUserID uint) (*models.Comment, error) {
	var c models.Comment
	if err := tx.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentNotFound(id)
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "load comment")
	}
	if c.AuthorID != actingUserID {
		return nil, apperr.New(apperr.CodeForbidden, "Not authorized to modify this comment")
	}
	return &c, nil
}

// Update replaces the whole content of the comment.
func (s *CommentService) Update(ctx context.Context, id uint, content string, actingUserID uint) (*models.Comment, error) {
	var comment *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		comment, err = authoredBy(tx, id, actingUserID)
		if err != nil {
			return err
		}
		if err := tx.Model(comment).Update("content", content).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "update comment")
		}
		if err := tx.Preload("Author").First(comment, id).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "load comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id, actingUserID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := authoredBy(tx, id, actingUserID)
		if err != nil {
			return err
		}
		if err := tx.Delete(comment).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete comment")
		}
		return nil
	})
}
