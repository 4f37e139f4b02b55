package podcasts

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/podfeed/internal/models"
	apperrors "github.com/killallgit/podfeed/pkg/errors"
	"gorm.io/gorm"
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure Repository implements PodcastRepository interface
var _ PodcastRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// SavePodcast upserts by feed URL. The episode list is replaced as a whole
// inside the same transaction so a reader never sees a mix of old and new.
func (r *Repository) SavePodcast(ctx context.Context, podcast *models.Podcast) (*models.PodcastRecord, error) {
	record := models.NewPodcastRecord(podcast)
	record.LastFetchedAt = r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PodcastRecord
		err := tx.Where("feed_url = ?", record.FeedURL).First(&existing).Error

		switch {
		case err == nil:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt

			if err := tx.Unscoped().Where("podcast_record_id = ?", existing.ID).Delete(&models.EpisodeRecord{}).Error; err != nil {
				return apperrors.DatabaseError("clearing episodes", err)
			}
			if err := tx.Omit("Episodes").Save(record).Error; err != nil {
				return apperrors.DatabaseError("updating podcast", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("Episodes").Create(record).Error; err != nil {
				return apperrors.DatabaseError("creating podcast", err)
			}
		default:
			return apperrors.DatabaseError("checking existing podcast", err)
		}

		if len(record.Episodes) == 0 {
			return nil
		}
		for i := range record.Episodes {
			record.Episodes[i].PodcastRecordID = record.ID
		}
		if err := tx.CreateInBatches(record.Episodes, 100).Error; err != nil {
			return apperrors.DatabaseError("creating episodes", err)
		}
		return nil
	})
	if err != nil {
		return nil, transactionError("saving podcast", err)
	}

	return record, nil
}

// GetPodcastByURL returns the stored podcast with its episodes in feed order
func (r *Repository) GetPodcastByURL(ctx context.Context, feedURL string) (*models.PodcastRecord, error) {
	var record models.PodcastRecord
	if err := r.db.WithContext(ctx).
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("feed_url = ?", feedURL).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{FeedURL: feedURL}
		}
		return nil, apperrors.DatabaseError("getting podcast by feed url", err)
	}
	return &record, nil
}

// ListPodcasts returns a page of stored podcasts without their episodes,
// most recently fetched first
func (r *Repository) ListPodcasts(ctx context.Context, page, limit int) ([]models.PodcastRecord, int64, error) {
	var records []models.PodcastRecord
	var total int64

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&models.PodcastRecord{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.DatabaseError("counting podcasts", err)
	}

	if err := r.db.WithContext(ctx).
		Order("last_fetched_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, apperrors.DatabaseError("listing podcasts", err)
	}

	return records, total, nil
}

// DeletePodcastByURL removes a stored podcast and its episodes
func (r *Repository) DeletePodcastByURL(ctx context.Context, feedURL string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.PodcastRecord
		if err := tx.Where("feed_url = ?", feedURL).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError{FeedURL: feedURL}
			}
			return apperrors.DatabaseError("getting podcast", err)
		}

		if err := tx.Unscoped().Where("podcast_record_id = ?", record.ID).Delete(&models.EpisodeRecord{}).Error; err != nil {
			return apperrors.DatabaseError("deleting episodes", err)
		}
		if err := tx.Unscoped().Delete(&record).Error; err != nil {
			return apperrors.DatabaseError("deleting podcast", err)
		}
		return nil
	})
	return transactionError("deleting podcast", err)
}

// transactionError wraps failures raised by the transaction itself, such as
// begin or commit, leaving errors returned from inside it untouched
func transactionError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	var notFound NotFoundError
	if errors.As(err, &appErr) || errors.As(err, &notFound) {
		return err
	}
	return apperrors.DatabaseError(operation, err)
}
