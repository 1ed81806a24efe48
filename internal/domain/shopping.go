package domain

// ShoppingItem — одна группа списка покупок: ингредиент с единицей измерения
// и суммарным количеством по всем рецептам корзины.
type ShoppingItem struct {
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount" db:"total_amount"`
}

// IngredientRecord — запись файла импорта ингредиентов.
type IngredientRecord struct {
	Name            string `json:"name" validate:"required,max=64"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=16"`
}

// ImportResult — итог импорта справочника.
type ImportResult struct {
	Total   int `json:"total"`
	Created int `json:"created"`
}
