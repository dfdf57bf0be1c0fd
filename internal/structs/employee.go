package structs

import "time"

// Employee statuses. Records created without a status default to Active.
const (
	StatusActive     = "active"
	StatusOnLeave    = "on-leave"
	StatusTerminated = "terminated"
)

type Employee struct {
	Id             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Position       string     `json:"position"`
	Department     string     `json:"department"`
	HireDate       string     `json:"hireDate,omitempty"`
	Salary         float64    `json:"salary,omitempty"`
	Address        string     `json:"address,omitempty"`
	Status         string     `json:"status,omitempty"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type CreateEmployee struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	HireDate   string  `json:"hireDate"`
	Salary     float64 `json:"salary"`
	Address    string  `json:"address"`
	Status     string  `json:"status"`
}

// UpdateEmployee carries a partial record: nil fields are left untouched.
// ProfilePicture is the exception, a non-nil pointer to an empty string
// clears the stored URL.
type UpdateEmployee struct {
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Position       *string  `json:"position"`
	Department     *string  `json:"department"`
	HireDate       *string  `json:"hireDate"`
	Salary         *float64 `json:"salary"`
	Address        *string  `json:"address"`
	Status         *string  `json:"status"`
	ProfilePicture *string  `json:"profilePicture"`
}
