// services/settings_service.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/utils"
)

const settingsCacheKey = "admin_settings:global"

// settingsCacheTTL keeps reads fresh within one request cycle; updates
// invalidate the key so write-read lag stays below the TTL anyway.
const settingsCacheTTL = 5 * time.Second

// SettingsService manages the admin-settings singleton. The document
// is guarded by a unique index on its sentinel key, so concurrent
// first access can never create two rows.
type SettingsService struct {
	collection *mongo.Collection
	cache      *redis.Client
	logger     *log.Logger
}

// NewSettingsService creates a new settings service. cache may be nil;
// reads then always go to the database.
func NewSettingsService(db *mongo.Database, cache *redis.Client) *SettingsService {
	return &SettingsService{
		collection: db.Collection("admin_settings"),
		cache:      cache,
		logger:     log.New(os.Stdout, "[SETTINGS] ", log.LstdFlags),
	}
}

// Get returns the singleton settings document, creating it with
// defaults on first access via an atomic upsert.
func (s *SettingsService) Get(ctx context.Context) (*models.AdminSettings, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	settings, err := s.findOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, settings)
	return settings, nil
}

// Update applies the non-nil fields of req, validates the result, and
// persists it against the sentinel key. The cache entry is dropped so
// the next read observes the write.
func (s *SettingsService) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.AdminSettings, error) {
	settings, err := s.findOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if req.MinCPM != nil {
		settings.MinCPM = *req.MinCPM
	}
	if req.MinViewsForPayout != nil {
		settings.MinViewsForPayout = *req.MinViewsForPayout
	}
	if req.PlatformCommissionPercentage != nil {
		settings.PlatformCommissionPercentage = *req.PlatformCommissionPercentage
	}
	if req.PayoutSchedule != nil {
		settings.PayoutSchedule = *req.PayoutSchedule
	}

	if msgs := settings.Validate(); len(msgs) > 0 {
		return nil, utils.ValidationError(msgs...)
	}

	settings.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"minCPM":                       settings.MinCPM,
		"minViewsForPayout":            settings.MinViewsForPayout,
		"platformCommissionPercentage": settings.PlatformCommissionPercentage,
		"payoutSchedule":               settings.PayoutSchedule,
		"updatedAt":                    settings.UpdatedAt,
	}}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"key": models.SettingsKey}, update); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return settings, nil
}

// Reload drops the cache entry, forcing the next Get to hit storage.
func (s *SettingsService) Reload(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *SettingsService) findOrCreate(ctx context.Context) (*models.AdminSettings, error) {
	defaults := models.DefaultAdminSettings()
	now := time.Now()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{
		"key":                          defaults.Key,
		"minCPM":                       defaults.MinCPM,
		"minViewsForPayout":            defaults.MinViewsForPayout,
		"platformCommissionPercentage": defaults.PlatformCommissionPercentage,
		"payoutSchedule":               defaults.PayoutSchedule,
		"createdAt":                    now,
		"updatedAt":                    now,
	}}

	var settings models.AdminSettings
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"key": models.SettingsKey}, update, opts).Decode(&settings)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race; the winner's document exists now.
		err = s.collection.FindOne(ctx, bson.M{"key": models.SettingsKey}).Decode(&settings)
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) fromCache(ctx context.Context) *models.AdminSettings {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, settingsCacheKey).Result()
	if err != nil {
		return nil
	}

	var settings models.AdminSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil
	}
	return &settings
}

func (s *SettingsService) toCache(ctx context.Context, settings *models.AdminSettings) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, settingsCacheKey, raw, settingsCacheTTL).Err(); err != nil {
		s.logger.Printf("Failed to cache settings: %v", err)
	}
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, settingsCacheKey).Err(); err != nil {
		s.logger.Printf("Failed to invalidate settings cache: %v", err)
	}
}
