package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// StringList stores a slice of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer for JSONB storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB storage
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Land represents a land listing in the sales catalog
type Land struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Location    string     `gorm:"not null;index" json:"location"`
	Size        string     `json:"size"`
	Price       float64    `gorm:"type:decimal(15,2);not null" json:"price"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url"`
	Description string     `gorm:"type:text" json:"description"`
	Features    StringList `gorm:"type:jsonb" json:"features"`
	Ada         string     `gorm:"index" json:"ada"`
	Parsel      string     `json:"parsel"`
	Installment bool       `gorm:"default:false;index" json:"installment"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Land
func (Land) TableName() string {
	return "lands"
}

// areaUnitPattern matches the m² suffix in catalog size strings ("1.250 m²").
var areaUnitPattern = regexp.MustCompile(`\s*m[²2]\s*`)

// CleanArea returns the size descriptor with the unit suffix stripped,
// suitable for the bare-number area field of a proposal item.
func (l *Land) CleanArea() string {
	return areaUnitPattern.ReplaceAllString(l.Size, "")
}

// LandResponse is the JSON response format for lands
type LandResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Size        string     `json:"size"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"image_url"`
	Description string     `json:"description"`
	Features    StringList `json:"features"`
	Ada         string     `json:"ada"`
	Parsel      string     `json:"parsel"`
	Installment bool       `json:"installment"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts Land to LandResponse
func (l *Land) ToResponse() LandResponse {
	return LandResponse{
		ID:          l.ID,
		Title:       l.Title,
		Location:    l.Location,
		Size:        l.Size,
		Price:       l.Price,
		ImageURL:    l.ImageURL,
		Description: l.Description,
		Features:    l.Features,
		Ada:         l.Ada,
		Parsel:      l.Parsel,
		Installment: l.Installment,
		CreatedAt:   l.CreatedAt,
	}
}
