package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSearchLimit = 20

var (
	ErrImageStorageUnavailable = errors.New("image storage is not configured")
	ErrUnsupportedImage        = errors.New("unsupported image")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FoodService manages foods users create for their own plans
type FoodService struct {
	db     *gorm.DB
	images ImageStore
}

var _ IFoodService = (*FoodService)(nil)

// NewFoodService creates a FoodService. images may be nil when S3 is not configured.
func NewFoodService(db *gorm.DB, images ImageStore) *FoodService {
	return &FoodService{db: db, images: images}
}

func (s *FoodService) CreateFood(ctx context.Context, userID uuid.UUID, req *types.CreateFoodRequest) (*types.FoodResponse, error) {
	food := &models.UserFood{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Cal:         req.Cal,
		Carb:        req.Carb,
		Fat:         req.Fat,
		Protein:     req.Protein,
		Serving:     strings.TrimSpace(req.Serving),
		Ingredients: models.JSONBStringArray(req.Ingredients),
		Embedding:   GenerateEmbedding(req.Name),
	}
	if food.Ingredients == nil {
		food.Ingredients = models.JSONBStringArray{}
	}

	if req.Image != "" {
		key, err := s.uploadImage(ctx, food, req.Image, req.ImageType)
		if err != nil {
			return nil, err
		}
		food.ImageKey = key
	}

	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, fmt.Errorf("failed to create food: %w", err)
	}
	return s.toResponse(ctx, *food), nil
}

func (s *FoodService) uploadImage(ctx context.Context, food *models.UserFood, encoded, contentType string) (string, error) {
	if s.images == nil {
		return "", ErrImageStorageUnavailable
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedImage, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	key := fmt.Sprintf("foods/%s/%s%s", food.UserID, food.ID, ext)
	if err := s.images.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// SearchFoods finds the user's foods by name. Postgres ranks name matches first and
// then by embedding distance; SQLite only filters by name.
func (s *FoodService) SearchFoods(ctx context.Context, userID uuid.UUID, query string, limit int) ([]types.FoodResponse, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query = strings.TrimSpace(query)
	like := "%" + strings.ToLower(query) + "%"

	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID).Limit(limit)
	switch {
	case query == "":
		dbQuery = dbQuery.Order("created_at DESC")
	case s.db.Dialector.Name() == "postgres":
		dbQuery = dbQuery.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "LOWER(name) LIKE ? DESC, embedding <-> ?",
			Vars:               []interface{}{like, GenerateEmbedding(query)},
			WithoutParentheses: true,
		}})
	default:
		dbQuery = dbQuery.Where("LOWER(name) LIKE ?", like).Order("name ASC")
	}

	var foods []models.UserFood
	if err := dbQuery.Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}

	out := make([]types.FoodResponse, 0, len(foods))
	for _, f := range foods {
		out = append(out, *s.toResponse(ctx, f))
	}
	return out, nil
}

func (s *FoodService) toResponse(ctx context.Context, food models.UserFood) *types.FoodResponse {
	resp := &types.FoodResponse{UserFood: food}
	if food.ImageKey == "" || s.images == nil {
		return resp
	}
	url, err := s.images.URL(ctx, food.ImageKey)
	if err != nil {
		log.Printf("[FoodService] Failed to presign image %s: %v", food.ImageKey, err)
		return resp
	}
	resp.Img = url
	return resp
}
