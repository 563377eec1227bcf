package model

// Screen is an auditorium inside a theater. Rows and Cols describe the seat
// grid; either may be zero when the API does not report a layout.
type Screen struct {
	ID        int64  `json:"id"`
	TheaterID int64  `json:"theaterId"`
	Name      string `json:"name"`
	Rows      int    `json:"rows,omitempty"`
	Cols      int    `json:"cols,omitempty"`
}
