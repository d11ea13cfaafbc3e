package model

// Image — ссылка на прикреплённое изображение. Data содержит либо data URL,
// либо адрес объекта во внешнем хранилище; содержимое не интерпретируется.
type Image struct {
	ID   string `json:"id" bson:"id"`
	Data string `json:"data" bson:"data"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}
