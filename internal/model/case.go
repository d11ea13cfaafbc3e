package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Gender — пол пациента. Пустое значение означает «не указан».
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid сообщает, входит ли значение в допустимый набор.
func (g Gender) Valid() bool {
	switch g {
	case GenderUnset, GenderMale, GenderFemale:
		return true
	}
	return false
}

// Case — серверная модель истории болезни. Хранится одним документом:
// список диагнозов лежит в JSON-колонке и пишется вместе со всей записью.
type Case struct {
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	Name    string `gorm:"not null;index" json:"name" bson:"name"`
	Symptom string `json:"symptom,omitempty" bson:"symptom,omitempty"`
	Contact string `json:"contact,omitempty" bson:"contact,omitempty"`
	Gender  Gender `gorm:"type:varchar(8)" json:"gender,omitempty" bson:"gender,omitempty"`
	Age     *int   `json:"age,omitempty" bson:"age,omitempty"`

	CreatedAt         time.Time `gorm:"not null" json:"createdAt" bson:"createdAt"`
	LastDiagnosisTime time.Time `gorm:"not null;index" json:"lastDiagnosisTime" bson:"lastDiagnosisTime"`

	Diagnoses datatypes.JSONSlice[Diagnosis] `gorm:"not null" json:"diagnoses" bson:"diagnoses"`
}

// Diagnosis — одна запись осмотра внутри Case.
type Diagnosis struct {
	ID        string     `json:"id" bson:"id"`
	Content   string     `json:"content" bson:"content"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Images    []Image    `json:"images" bson:"images"`
}

// FindDiagnosis возвращает индекс диагноза по id или -1.
func (c *Case) FindDiagnosis(id string) int {
	for i := range c.Diagnoses {
		if c.Diagnoses[i].ID == id {
			return i
		}
	}
	return -1
}

// LatestActivity — максимум createdAt/updatedAt по всем диагнозам.
func (c *Case) LatestActivity() time.Time {
	var latest time.Time
	for _, d := range c.Diagnoses {
		if d.CreatedAt.After(latest) {
			latest = d.CreatedAt
		}
		if d.UpdatedAt != nil && d.UpdatedAt.After(latest) {
			latest = *d.UpdatedAt
		}
	}
	return latest
}

// Matches проверяет вхождение подстроки (без учёта регистра) в имя, симптом,
// контакт или текст любого диагноза. Пустой запрос совпадает со всем.
func (c *Case) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if containsFold(c.Name, q) || containsFold(c.Symptom, q) || containsFold(c.Contact, q) {
		return true
	}
	for _, d := range c.Diagnoses {
		if containsFold(d.Content, q) {
			return true
		}
	}
	return false
}

func containsFold(s, lowered string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowered)
}
