package types

// BudgetLine is the planned and actual spend of one category in a period
// ("2026-10").
type BudgetLine struct {
	LineID   string `json:"id"`
	Category string `json:"category" validate:"required"`
	Period   string `json:"period" validate:"required"`
	Planned  int64  `json:"planned" validate:"gte=0"`
	Actual   int64  `json:"actual" validate:"gte=0"`
}

// RecordID returns the line ID.
func (b BudgetLine) RecordID() string { return b.LineID }

// Field exposes budget columns by their JSON key.
func (b BudgetLine) Field(key string) (any, bool) {
	switch key {
	case "id":
		return b.LineID, true
	case "category":
		return b.Category, true
	case "period":
		return b.Period, true
	case "planned":
		return b.Planned, true
	case "actual":
		return b.Actual, true
	}
	return nil, false
}

// WithID returns a copy carrying id.
func (b BudgetLine) WithID(id string) BudgetLine {
	b.LineID = id
	return b
}

// Apply returns a copy with patch merged in.
func (b BudgetLine) Apply(patch Patch) (BudgetLine, error) {
	var err error
	for key, v := range patch {
		switch key {
		case "category":
			b.Category, err = patchString(key, v)
		case "period":
			b.Period, err = patchString(key, v)
		case "planned":
			b.Planned, err = patchInt64(key, v)
		case "actual":
			b.Actual, err = patchInt64(key, v)
		default:
			err = unknownField(key)
		}
		if err != nil {
			return BudgetLine{}, err
		}
	}
	return b, nil
}
