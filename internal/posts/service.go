package posts

import (
	"errors"
	"strings"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/media"
	"snapfeed/internal/models"
	feedmodels "snapfeed/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// unknownEmail is shown when a post's owner record no longer exists.
const unknownEmail = "Unknown"

// Uploader is the slice of the media host client the service depends on.
type Uploader interface {
	Upload(fileData []byte, filename string) (*media.UploadResult, error)
}

// Service owns the post lifecycle: upload-backed creation, feed projection
// and owner-checked deletion.
type Service struct {
	DB       *gorm.DB
	Uploader Uploader
}

func NewService(db *gorm.DB, uploader Uploader) *Service {
	return &Service{DB: db, Uploader: uploader}
}

// Create uploads the file to the media host and persists a post referencing
// the returned URL. The post row is written only after a successful upload;
// if the write then fails the remote file is left orphaned.
func (s *Service) Create(owner *models.User, fileData []byte, filename, contentType, caption string) (*models.Post, error) {
	if len(fileData) == 0 {
		return nil, apperrors.New(apperrors.Validation, "file is required")
	}

	result, err := s.Uploader.Upload(fileData, filename)
	if err != nil {
		return nil, err
	}

	fileType := "image"
	if strings.HasPrefix(contentType, "video/") {
		fileType = "video"
	}

	post := &models.Post{
		UserID:   owner.ID,
		Caption:  caption,
		URL:      result.URL,
		FileType: fileType,
		FileName: result.Name,
	}
	if err := s.DB.Create(post).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	return post, nil
}

// Feed returns every post newest-first, annotated with the viewer-relative
// ownership flag and the owner's email. No pagination: the whole table is
// scanned on every call.
func (s *Service) Feed(viewer *models.User) ([]feedmodels.FeedPost, error) {
	var posts []models.Post
	if err := s.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}

	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	feed := make([]feedmodels.FeedPost, 0, len(posts))
	for _, post := range posts {
		email, ok := emails[post.UserID]
		if !ok {
			email = unknownEmail
		}
		feed = append(feed, feedmodels.FeedPost{
			ID:        post.ID.String(),
			UserID:    post.UserID.String(),
			Caption:   post.Caption,
			URL:       post.URL,
			FileType:  post.FileType,
			FileName:  post.FileName,
			CreatedAt: post.CreatedAt,
			IsOwner:   post.UserID == viewer.ID,
			Email:     email,
		})
	}
	return feed, nil
}

// Delete hard-deletes the post after checking it exists and belongs to the
// requester. Malformed ids, missing posts and foreign posts each get their
// own error kind so the transport layer can answer 400, 404 and 403.
func (s *Service) Delete(requester *models.User, postID string) error {
	id, err := uuid.Parse(postID)
	if err != nil {
		return apperrors.New(apperrors.Validation, "malformed post id %q", postID)
	}

	var post models.Post
	if err := s.DB.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "post not found")
		}
		return apperrors.Wrap(apperrors.Persistence, err)
	}

	if post.UserID != requester.ID {
		return apperrors.New(apperrors.Forbidden, "you are not allowed to perform this action")
	}

	if err := s.DB.Delete(&post).Error; err != nil {
		return apperrors.Wrap(apperrors.Persistence, err)
	}
	return nil
}
