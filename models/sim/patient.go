package sim

import "time"

type Patient struct {
	ID            uint       `gorm:"primary_key;column:id" json:"id"`
	Identifier    string     `gorm:"column:identifier;unique_index" json:"identifier"`
	Name          string     `gorm:"column:name" json:"name"`
	Email         *string    `gorm:"column:email" json:"email,omitempty"`
	Gender        *string    `gorm:"column:gender" json:"gender,omitempty"`
	Country       *string    `gorm:"column:country" json:"country,omitempty"`
	Age           int        `gorm:"column:age" json:"age"`
	Weight        *float64   `gorm:"column:weight" json:"weight,omitempty"`
	Active        bool       `gorm:"column:active" json:"active"`
	BirthDate     *time.Time `gorm:"column:birth_date" json:"birthDate,omitempty"`
	DeceasedDate  *time.Time `gorm:"column:deceased_date" json:"deceasedDate,omitempty"`
	InternalNotes string     `gorm:"-" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}
