package model

// Customer is a registered customer account managed from the admin back
// office. DateOfBirth uses the YYYY-MM-DD layout and must lie in the past.
type Customer struct {
	ID          int64  `json:"id,omitempty"`
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,vnphone"`
	DateOfBirth string `json:"dateOfBirth,omitempty" validate:"omitempty,pastdate"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE LOCKED"`
}

// Staff is an employee account attached to a theater. Owners manage staff of
// their own theaters; admins manage all of them.
type Staff struct {
	ID          int64  `json:"id,omitempty"`
	TheaterID   int64  `json:"theaterId" validate:"required,gt=0"`
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,vnphone"`
	DateOfBirth string `json:"dateOfBirth,omitempty" validate:"omitempty,pastdate"`
	Position    string `json:"position,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE LOCKED"`
}
