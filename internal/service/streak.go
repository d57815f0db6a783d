package service

import "diet-ledger/internal/domain"

// DietStreak returns the length of the longest contiguous run of on-diet
// meals. The input must already be in chronological order; the function does
// not sort.
func DietStreak(meals []domain.Meal) int {
	var best, run int
	for _, meal := range meals {
		if meal.IsOnDiet {
			run++
			continue
		}
		if run > best {
			best = run
		}
		run = 0
	}
	if run > best {
		best = run
	}
	return best
}
