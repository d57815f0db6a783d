package domain

import "time"

// Meal is a single tracked meal owned by exactly one user. Date is the moment
// the meal was eaten (epoch milliseconds, caller supplied), not the moment the
// record was created.
type Meal struct {
	ID          string
	Name        string
	Description string
	Date        int64
	IsOnDiet    bool
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealUpdate carries the subset of meal fields a caller wants to change.
// Nil fields are left untouched.
type MealUpdate struct {
	Name        *string
	Description *string
	Date        *int64
	IsOnDiet    *bool
}

// Summary aggregates a user's meals. TotalMealsOnDietSequence is the longest
// contiguous run of on-diet meals in chronological order.
type Summary struct {
	TotalMeals               int
	TotalMealsOnDiet         int
	TotalMealsNotOnDiet      int
	TotalMealsOnDietSequence int
}
