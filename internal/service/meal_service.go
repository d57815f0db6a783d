package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"diet-ledger/internal/domain"
	"diet-ledger/internal/repository"
)

// MealService coordinates meal operations for one authenticated caller.
// Every method takes the caller's user id and never touches rows owned by
// anyone else.
type MealService interface {
	Create(ctx context.Context, userID, name, description string, date int64, isOnDiet bool) (*domain.Meal, error)
	List(ctx context.Context, userID string) ([]domain.Meal, error)
	Get(ctx context.Context, userID, id string) (*domain.Meal, error)
	Update(ctx context.Context, userID, id string, update domain.MealUpdate) error
	Delete(ctx context.Context, userID, id string) error
	Summarize(ctx context.Context, userID string) (*domain.Summary, error)
}

type mealService struct {
	meals repository.MealRepository
}

func NewMealService(meals repository.MealRepository) MealService {
	return &mealService{meals: meals}
}

func (s *mealService) Create(ctx context.Context, userID, name, description string, date int64, isOnDiet bool) (*domain.Meal, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	meal := &domain.Meal{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Date:        date,
		IsOnDiet:    isOnDiet,
		UserID:      userID,
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *mealService) List(ctx context.Context, userID string) ([]domain.Meal, error) {
	return s.meals.ListByUser(ctx, userID)
}

func (s *mealService) Get(ctx context.Context, userID, id string) (*domain.Meal, error) {
	return s.meals.GetByID(ctx, id, userID)
}

func (s *mealService) Update(ctx context.Context, userID, id string, update domain.MealUpdate) error {
	return s.meals.Update(ctx, id, userID, update)
}

func (s *mealService) Delete(ctx context.Context, userID, id string) error {
	return s.meals.Delete(ctx, id, userID)
}

func (s *mealService) Summarize(ctx context.Context, userID string) (*domain.Summary, error) {
	meals, err := s.meals.ListByUserChronological(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		TotalMeals:               len(meals),
		TotalMealsOnDietSequence: DietStreak(meals),
	}
	for _, meal := range meals {
		if meal.IsOnDiet {
			summary.TotalMealsOnDiet++
		} else {
			summary.TotalMealsNotOnDiet++
		}
	}
	return summary, nil
}
