package http

import "diet-ledger/internal/domain"

// MealResponse is the public projection of a meal. Ledger bookkeeping fields
// (user_id, created_at, updated_at) are not exposed.
type MealResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	IsOnDiet    bool   `json:"is_on_diet"`
}

// UserResponse is the public projection of a user. The session token is never
// echoed back.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SummaryResponse struct {
	TotalMeals               int `json:"totalMeals"`
	TotalMealsOnDiet         int `json:"totalMealsOnDiet"`
	TotalMealsNotOnDiet      int `json:"totalMealsNotOnDiet"`
	TotalMealsOnDietSequence int `json:"totalMealsOnDietSequence"`
}

func mealToResponse(meal domain.Meal) MealResponse {
	return MealResponse{
		ID:          meal.ID,
		Name:        meal.Name,
		Description: meal.Description,
		Date:        meal.Date,
		IsOnDiet:    meal.IsOnDiet,
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
