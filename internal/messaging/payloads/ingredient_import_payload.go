package payloads

// IngredientImportPayload — сообщение для очереди импорта ингредиентов.
// ObjectKey указывает на JSON-файл в объектном хранилище.
type IngredientImportPayload struct {
	ObjectKey   string `json:"object_key"`
	RequestedBy string `json:"requested_by,omitempty"`
}
