package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"diet-ledger/internal/domain"
	"diet-ledger/internal/repository"
)

const createMealsTable = `
CREATE TABLE IF NOT EXISTS meals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	date INTEGER NOT NULL,
	is_on_diet INTEGER NOT NULL,
	user_id TEXT NOT NULL REFERENCES users (id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createMealsUserDateIndex = `
CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals (user_id, date);
`

const mealColumns = `id, name, description, date, is_on_diet, user_id, created_at, updated_at`

type MealRepository struct {
	db *sql.DB
}

func NewMealRepository(db *sql.DB) repository.MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMealsTable); err != nil {
		return fmt.Errorf("create meals table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createMealsUserDateIndex); err != nil {
		return fmt.Errorf("create meals user/date index: %w", err)
	}
	return nil
}

func (r *MealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO meals (id, name, description, date, is_on_diet, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID,
		meal.Name,
		meal.Description,
		meal.Date,
		meal.IsOnDiet,
		meal.UserID,
		meal.CreatedAt,
		meal.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (r *MealRepository) GetByID(ctx context.Context, id, userID string) (*domain.Meal, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+mealColumns+`
FROM meals
WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	var meal domain.Meal
	if err := scanMeal(row.Scan, &meal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMealNotFound
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	return &meal, nil
}

func (r *MealRepository) ListByUser(ctx context.Context, userID string) ([]domain.Meal, error) {
	return r.list(ctx, userID, `ORDER BY date DESC, created_at ASC, id ASC`)
}

func (r *MealRepository) ListByUserChronological(ctx context.Context, userID string) ([]domain.Meal, error) {
	return r.list(ctx, userID, `ORDER BY date ASC, created_at ASC, id ASC`)
}

func (r *MealRepository) list(ctx context.Context, userID, order string) ([]domain.Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+mealColumns+`
FROM meals
WHERE user_id = ?
`+order,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var meal domain.Meal
		if err := scanMeal(rows.Scan, &meal); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

func (r *MealRepository) Update(ctx context.Context, id, userID string, update domain.MealUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *update.Date)
	}
	if update.IsOnDiet != nil {
		sets = append(sets, "is_on_diet = ?")
		args = append(args, *update.IsOnDiet)
	}
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx, `
UPDATE meals
SET `+strings.Join(sets, ", ")+`
WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return requireAffected(res)
}

func (r *MealRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM meals
WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps a zero-row write to ErrMealNotFound, which covers both
// a missing meal and a meal owned by someone else.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("meal rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrMealNotFound
	}
	return nil
}

func scanMeal(scan func(dest ...any) error, meal *domain.Meal) error {
	return scan(
		&meal.ID,
		&meal.Name,
		&meal.Description,
		&meal.Date,
		&meal.IsOnDiet,
		&meal.UserID,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
}
