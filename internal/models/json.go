package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}
	return json.Unmarshal(jsonBytes(value), a)
}

// PlanDocument stores a whole GeneratedPlan in one JSONB column.
type PlanDocument nutrition.GeneratedPlan

func (p PlanDocument) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return string(b), nil
}

func (p *PlanDocument) Scan(value interface{}) error {
	if value == nil {
		*p = PlanDocument{}
		return nil
	}
	return json.Unmarshal(jsonBytes(value), p)
}

// NutritionDocument stores the targets a plan was generated for.
type NutritionDocument nutrition.RecommendedNutrition

func (n NutritionDocument) Value() (driver.Value, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (n *NutritionDocument) Scan(value interface{}) error {
	if value == nil {
		*n = NutritionDocument{}
		return nil
	}
	return json.Unmarshal(jsonBytes(value), n)
}

func jsonBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte("null")
	}
}
