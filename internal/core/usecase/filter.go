package usecase

import (
	"fmt"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// CompileFilter validates user-facing filter options and produces the
// predicate spec. Pure: no side effects, no state.
func CompileFilter(opts domain.FilterOptions) (domain.FilterSpec, error) {
	if opts.Diet != "" && !opts.Diet.Valid() {
		return domain.FilterSpec{}, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
			fmt.Errorf("unknown diet %q", opts.Diet))
	}

	mealTimes, err := normalizeMealSet("meal_time", opts.MealTimes)
	if err != nil {
		return domain.FilterSpec{}, err
	}
	mealTypes, err := normalizeMealSet("meal_type", opts.MealTypes)
	if err != nil {
		return domain.FilterSpec{}, err
	}

	if opts.MinCookTime != nil && *opts.MinCookTime < 0 {
		return domain.FilterSpec{}, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
			fmt.Errorf("min_cook_time must be >= 0, got %d", *opts.MinCookTime))
	}
	if opts.MaxCookTime != nil && *opts.MaxCookTime < 0 {
		return domain.FilterSpec{}, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
			fmt.Errorf("max_cook_time must be >= 0, got %d", *opts.MaxCookTime))
	}
	if opts.MinCookTime != nil && opts.MaxCookTime != nil && *opts.MinCookTime > *opts.MaxCookTime {
		return domain.FilterSpec{}, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
			fmt.Errorf("min_cook_time %d exceeds max_cook_time %d", *opts.MinCookTime, *opts.MaxCookTime))
	}
	if opts.ServingSize != nil && *opts.ServingSize < 1 {
		return domain.FilterSpec{}, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
			fmt.Errorf("serving_size must be >= 1, got %d", *opts.ServingSize))
	}

	spec := domain.FilterSpec{
		Diet:      opts.Diet,
		MealTimes: mealTimes,
		MealTypes: mealTypes,
	}
	if opts.MinCookTime != nil {
		v := *opts.MinCookTime
		spec.MinCookTime = &v
	}
	if opts.MaxCookTime != nil {
		v := *opts.MaxCookTime
		spec.MaxCookTime = &v
	}
	if opts.ServingSize != nil {
		v := *opts.ServingSize
		spec.ServingSize = &v
	}
	return spec, nil
}

func normalizeMealSet(key string, values []domain.MealTime) ([]domain.MealTime, error) {
	if len(values) == 0 {
		return nil, nil
	}
	seen := make(map[domain.MealTime]struct{}, len(values))
	out := make([]domain.MealTime, 0, len(values))
	for _, v := range values {
		if !v.Valid() {
			return nil, domain.WrapError(domain.ErrInvalidFilter, "compile filter",
				fmt.Errorf("unknown %s value %q", key, v))
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
