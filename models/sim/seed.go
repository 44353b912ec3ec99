package sim

import (
	"fmt"
	"time"

	"github.com/SanteonNL/queryfilter/util"
	"github.com/jinzhu/gorm"
)

// DemoPatients returns the rows used to seed a demo database.
func DemoPatients() []Patient {
	date := func(s string) *time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return &t
	}
	weight := func(f float64) *float64 { return &f }

	return []Patient{
		{Identifier: "P001", Name: "Anne de Vries", Email: util.StringPtr("anne@example.org"), Gender: util.StringPtr("female"), Country: util.StringPtr("NL"), Age: 34, Weight: weight(61.5), Active: true, BirthDate: date("1990-03-14")},
		{Identifier: "P002", Name: "Bram Jansen", Email: util.StringPtr("bram@example.org"), Gender: util.StringPtr("male"), Country: util.StringPtr("NL"), Age: 52, Weight: weight(84), Active: true, BirthDate: date("1972-07-01")},
		{Identifier: "P003", Name: "Carla Smit", Gender: util.StringPtr("female"), Country: util.StringPtr("BE"), Age: 71, Weight: weight(70.2), Active: false, BirthDate: date("1953-11-23"), DeceasedDate: date("2024-02-02")},
		{Identifier: "P004", Name: "Daan Bakker", Email: util.StringPtr("daan@example.com"), Gender: util.StringPtr("male"), Country: util.StringPtr("DE"), Age: 19, Active: true, BirthDate: date("2005-05-30")},
		{Identifier: "P005", Name: "Eva Visser", Email: util.StringPtr("eva@example.com"), Gender: util.StringPtr("female"), Country: util.StringPtr("NL"), Age: 45, Weight: weight(66), Active: false, BirthDate: date("1979-09-09")},
	}
}

// Seed creates the patients table when missing and inserts patients.
func Seed(db *gorm.DB, patients []Patient) error {
	if err := db.AutoMigrate(&Patient{}).Error; err != nil {
		return fmt.Errorf("failed to migrate patients: %w", err)
	}
	for i := range patients {
		if err := db.Create(&patients[i]).Error; err != nil {
			return fmt.Errorf("failed to insert patient %s: %w", patients[i].Identifier, err)
		}
	}
	return nil
}
