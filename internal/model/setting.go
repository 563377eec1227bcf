package model

// Setting is a system-wide key/value configuration entry.
type Setting struct {
	ID          int64  `json:"id,omitempty"`
	Key         string `json:"key" validate:"required"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}
