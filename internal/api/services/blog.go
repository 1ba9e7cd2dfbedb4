package services

import (
	"context"
	"errors"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogService struct{ db *gorm.DB }

func NewBlogService(db *gorm.DB) *BlogService { return &BlogService{db: db} }

func blogNotFound(id uint) error {
	return apperr.Newf(apperr.CodeNotFound, "Blog with id %d not found", id)
}

// withRelations eager loads the creator, the comments and their authors.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author")
}

func (s *BlogService) Create(ctx context.Context, in models.BlogInput, creatorID uint) (*models.Blog, error) {
	blog := &models.Blog{
		Title:     in.Title,
		Body:      in.Body,
		Published: in.IsPublished(),
		CreatorID: creatorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(blog).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "create blog")
		}
		if err := withRelations(tx).First(blog, blog.ID).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "load blog")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// List returns published blogs only, newest first.
func (s *BlogService) List(ctx context.Context, skip, limit int) ([]models.Blog, error) {
	blogs := make([]models.Blog, 0)
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Where("published = ?", true).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list blogs")
	}
	return blogs, nil
}

// Get returns a blog whatever its published state; nil when absent.
func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := withRelations(s.db.WithContext(ctx)).First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "load blog")
	}
	return &blog, nil
}

// ownedBy loads blog id inside tx and checks that actingUserID created it.
func ownedBy(tx *gorm.DB, id, actingUserID uint) (*models.Blog, error) {
	var blog models.Blog
	if err := tx.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, blogNotFound(id)
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "load blog")
	}
	if blog.CreatorID != actingUserID {
		return nil, apperr.New(apperr.CodeForbidden, "Not authorized to modify this blog")
	}
	return &blog, nil
}

// Owned returns the blog when actingUserID is its creator.
func (s *BlogService) Owned(ctx context.Context, id, actingUserID uint) (*models.Blog, error) {
	return ownedBy(s.db.WithContext(ctx), id, actingUserID)
}

// Update writes only the fields present in patch and refreshes updated_at.
func (s *BlogService) Update(ctx context.Context, id uint, patch models.BlogPatch, actingUserID uint) (*models.Blog, error) {
	var blog *models.Blog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		blog, err = ownedBy(tx, id, actingUserID)
		if err != nil {
			return err
		}
		if !patch.Empty() {
			if err := tx.Model(blog).Updates(patch.Columns()).Error; err != nil {
				return apperr.Wrap(err, apperr.CodeInternal, "update blog")
			}
		}
		if err := withRelations(tx).First(blog, id).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "load blog")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// Delete removes the blog and its comments in one transaction.
func (s *BlogService) Delete(ctx context.Context, id, actingUserID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blog, err := ownedBy(tx, id, actingUserID)
		if err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.Comment{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete blog comments")
		}
		if err := tx.Delete(blog).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete blog")
		}
		return nil
	})
}
