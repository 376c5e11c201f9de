package students

import (
	"github.com/google/uuid"
)

// Student is a record held by the Repository
type Student struct {
	ID       uuid.UUID
	Name     string
	Age      int
	Country  string
	IsActive bool
	Credits  float64
}

// StudentListItem is the list representation served by the students API
type StudentListItem struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Age     int       `json:"age"`
	SelfURL string    `json:"selfUrl"`
}

// StudentDetails is the detail representation served by the students API
type StudentDetails struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Age      int       `json:"age"`
	Country  string    `json:"country"`
	IsActive bool      `json:"isActive"`
	Credits  float64   `json:"credits"`
}

// ToListItem converts a Student into its list representation
func (s Student) ToListItem(selfURL string) StudentListItem {
	return StudentListItem{
		ID:      s.ID,
		Name:    s.Name,
		Age:     s.Age,
		SelfURL: selfURL,
	}
}

// ToDetails converts a Student into its detail representation
func (s Student) ToDetails() StudentDetails {
	return StudentDetails{
		ID:       s.ID,
		Name:     s.Name,
		Age:      s.Age,
		Country:  s.Country,
		IsActive: s.IsActive,
		Credits:  s.Credits,
	}
}
