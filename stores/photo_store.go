package stores

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	internalS3 "photoshare/adapters/s3"
	"photoshare/models"
)

// ErrDisallowedExtension marks an upload whose filename is missing an
// allow-listed image extension.
var ErrDisallowedExtension = errors.New("file type not allowed")

// IBlobStore is the bucket contract the photo store delegates bytes to.
type IBlobStore interface {
	Upload(ctx context.Context, key, contentType string, content []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// IPhotoStore is the photo metadata capability the router is constructed with.
type IPhotoStore interface {
	Create(ctx context.Context, originalName, description string, content []byte, ownerID uint) (*models.Photo, error)
	Search(ctx context.Context, substring string) ([]models.Photo, error)
	Delete(ctx context.Context, photoID, requesterID uint) error
}

// PhotoStore keeps photo metadata in the photos table and the bytes in a
// blob store.
type PhotoStore struct {
	db    *gorm.DB
	blobs IBlobStore
}

func NewPhotoStore(db *gorm.DB, blobs IBlobStore) *PhotoStore {
	return &PhotoStore{db: db, blobs: blobs}
}

// Create validates the upload, stores the bytes and inserts the metadata row.
// The blob upload runs first; when it fails no row is written. A row insert
// failing after a successful upload leaves an orphan blob behind, which is
// the accepted inconsistency window.
func (s *PhotoStore) Create(ctx context.Context, originalName, description string, content []byte, ownerID uint) (*models.Photo, error) {
	const op = "PhotoStore.Create"
	ok, _, contentType := internalS3.CheckAllowedExtension(originalName)
	if !ok {
		return nil, fmt.Errorf("[%s] %w: %q", op, ErrDisallowedExtension, originalName)
	}

	// Random token prefix keeps generated filenames collision-proof and
	// independent of whatever name the client uploaded under.
	token := uuid.New()
	filename := hex.EncodeToString(token[:]) + "_" + internalS3.SanitizeFilename(originalName)

	if err := s.blobs.Upload(ctx, filename, contentType, content); err != nil {
		return nil, fmt.Errorf("[%s] Fail to upload blob, err=%w", op, err)
	}

	photo := models.Photo{
		Filename:    filename,
		Description: description,
		UserID:      ownerID,
	}
	if result := s.db.WithContext(ctx).Create(&photo); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to create photo, err=%w", op, result.Error)
	}
	return &photo, nil
}

// Search returns photos whose description contains substring, matched
// case-insensitively. An empty substring returns every photo. No ordering is
// guaranteed.
func (s *PhotoStore) Search(ctx context.Context, substring string) ([]models.Photo, error) {
	const op = "PhotoStore.Search"
	query := s.db.WithContext(ctx)
	if substring != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(substring)+"%")
	}
	var photos []models.Photo
	if result := query.Find(&photos); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to list photos, err=%w", op, result.Error)
	}
	return photos, nil
}

// Delete removes the photo and its blob when requesterID owns it. A missing
// photo or one owned by someone else is silently left alone; callers cannot
// distinguish the two from a successful delete.
func (s *PhotoStore) Delete(ctx context.Context, photoID, requesterID uint) error {
	const op = "PhotoStore.Delete"
	photo := models.Photo{ID: photoID}
	if result := s.db.WithContext(ctx).First(&photo); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("[%s] Fail to find photo, err=%w", op, result.Error)
	}
	if photo.UserID != requesterID {
		return nil
	}

	if result := s.db.WithContext(ctx).Delete(&photo); result.Error != nil {
		return fmt.Errorf("[%s] Fail to delete photo, err=%w", op, result.Error)
	}

	// Existence check and delete are two remote calls; a blob vanishing in
	// between surfaces as an error from the second one.
	exists, err := s.blobs.Exists(ctx, photo.Filename)
	if err != nil {
		return fmt.Errorf("[%s] Fail to check blob, err=%w", op, err)
	}
	if exists {
		if err := s.blobs.Delete(ctx, photo.Filename); err != nil {
			return fmt.Errorf("[%s] Fail to delete blob, err=%w", op, err)
		}
	}
	return nil
}
