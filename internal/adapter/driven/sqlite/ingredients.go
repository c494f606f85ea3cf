package sqlite

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// ingredientList is the ingredients column: a JSON array of {"name","measure"} objects.
// It implements sql.Scanner and driver.Valuer so sqlx can map it directly.
type ingredientList []model.Ingredient

// Value implements the driver.Valuer interface. An empty list is stored as "[]".
func (l ingredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}

	data, err := json.Marshal([]model.Ingredient(l))
	if err != nil {
		return nil, fmt.Errorf("marshal ingredients: %w", err)
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface. NULL scans to an empty list.
func (l *ingredientList) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = ingredientList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan ingredients: unsupported type %T", value)
	}

	list := []model.Ingredient{}
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("unmarshal ingredients: %w", err)
	}
	*l = list
	return nil
}
