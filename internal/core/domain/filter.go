package domain

// FilterOptions is the user-facing filter surface. All keys are optional;
// JSON decoding into this struct drops unrecognized keys, which keeps the
// request shape forward-compatible.
type FilterOptions struct {
	Diet        DietType   `json:"diet,omitempty"`
	MealTimes   []MealTime `json:"meal_time,omitempty"`
	MealTypes   []MealTime `json:"meal_type,omitempty"`
	MinCookTime *int       `json:"min_cook_time,omitempty"`
	MaxCookTime *int       `json:"max_cook_time,omitempty"`
	ServingSize *int       `json:"serving_size,omitempty"`
}

// FilterSpec is a validated FilterOptions. Zero values mean "constraint not
// present"; Diet carries DietAny when the user explicitly asked for anything,
// which matches every recipe but still overrides a carried diet on merge.
type FilterSpec struct {
	Diet        DietType
	MealTimes   []MealTime
	MealTypes   []MealTime
	MinCookTime *int
	MaxCookTime *int
	ServingSize *int
}

func (s FilterSpec) IsZero() bool {
	return s.Diet == "" &&
		len(s.MealTimes) == 0 &&
		len(s.MealTypes) == 0 &&
		s.MinCookTime == nil &&
		s.MaxCookTime == nil &&
		s.ServingSize == nil
}

// Matches reports whether the recipe satisfies every present constraint.
// Absent constraints are always true.
func (s FilterSpec) Matches(r Recipe) bool {
	if s.Diet == DietVeg || s.Diet == DietNonVeg {
		if r.Diet != s.Diet {
			return false
		}
	}
	if len(s.MealTimes) > 0 && !intersectsMealTimes(r, s.MealTimes) {
		return false
	}
	if len(s.MealTypes) > 0 && !intersectsMealTimes(r, s.MealTypes) {
		return false
	}
	if s.MinCookTime != nil && r.CookTimeMinutes < *s.MinCookTime {
		return false
	}
	if s.MaxCookTime != nil && r.CookTimeMinutes > *s.MaxCookTime {
		return false
	}
	if s.ServingSize != nil && r.ServingSize < *s.ServingSize {
		return false
	}
	return true
}

// Merge returns the carried spec with the delta's present keys overriding it.
// Keys the delta does not set keep their carried values; this is the
// conversational refinement contract.
func (s FilterSpec) Merge(delta FilterSpec) FilterSpec {
	out := s
	if delta.Diet != "" {
		out.Diet = delta.Diet
	}
	if len(delta.MealTimes) > 0 {
		out.MealTimes = append([]MealTime(nil), delta.MealTimes...)
	}
	if len(delta.MealTypes) > 0 {
		out.MealTypes = append([]MealTime(nil), delta.MealTypes...)
	}
	if delta.MinCookTime != nil {
		v := *delta.MinCookTime
		out.MinCookTime = &v
	}
	if delta.MaxCookTime != nil {
		v := *delta.MaxCookTime
		out.MaxCookTime = &v
	}
	if delta.ServingSize != nil {
		v := *delta.ServingSize
		out.ServingSize = &v
	}
	return out
}

func intersectsMealTimes(r Recipe, wanted []MealTime) bool {
	for _, m := range wanted {
		if r.HasMealTime(m) {
			return true
		}
	}
	return false
}
