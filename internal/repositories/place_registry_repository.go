package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"veritrip/internal/models/db_models"
)

type PlaceRegistryRepository interface {
	UpsertValidatedPlace(ctx context.Context, place *db_models.ValidatedPlace) error
	AppendValidationHistory(ctx context.Context, record *db_models.ValidationHistory) error

	GetByPlaceID(ctx context.Context, placeID string) (*db_models.ValidatedPlace, error)
	ListMostUsed(ctx context.Context, limit int) ([]db_models.ValidatedPlace, error)
}

type placeRegistryRepository struct {
	db *gorm.DB
}

func NewPlaceRegistryRepository(db *gorm.DB) PlaceRegistryRepository {
	return &placeRegistryRepository{db: db}
}

// UpsertValidatedPlace refreshes the verified fields on conflict and bumps
// the usage counter; the first insert leaves UsedCount at 1.
func (r *placeRegistryRepository) UpsertValidatedPlace(ctx context.Context, place *db_models.ValidatedPlace) error {
	now := time.Now().Unix()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"verified_name":     place.VerifiedName,
			"formatted_address": place.FormattedAddress,
			"latitude":          place.Latitude,
			"longitude":         place.Longitude,
			"rating":            place.Rating,
			"review_count":      place.ReviewCount,
			"price_level":       place.PriceLevel,
			"business_status":   place.BusinessStatus,
			"types":             place.Types,
			"weekday_text":      place.WeekdayText,
			"photos":            place.Photos,
			"google_maps_url":   place.GoogleMapsURL,
			"website":           place.Website,
			"phone":             place.Phone,
			"quality_score":     place.QualityScore,
			"validated_at":      place.ValidatedAt,
			"last_used_at":      now,
			"updated_at":        now,
			"used_count":        gorm.Expr("validated_places.used_count + 1"),
		}),
	}).Create(place).Error
}

func (r *placeRegistryRepository) AppendValidationHistory(ctx context.Context, record *db_models.ValidationHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ────────────────────────────────────────────────────────────────
// Read helpers return a default value + nil error when no rows
// are found.
// ────────────────────────────────────────────────────────────────

func (r *placeRegistryRepository) GetByPlaceID(ctx context.Context, placeID string) (*db_models.ValidatedPlace, error) {
	var place db_models.ValidatedPlace
	err := r.db.WithContext(ctx).
		First(&place, "place_id = ?", placeID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRegistryRepository) ListMostUsed(ctx context.Context, limit int) ([]db_models.ValidatedPlace, error) {
	var places []db_models.ValidatedPlace
	err := r.db.WithContext(ctx).
		Order("used_count DESC").
		Order("last_used_at DESC").
		Limit(limit).
		Find(&places).Error

	if err != nil {
		return nil, err
	}
	return places, nil
}
