package model

// FoodItem is a snack or drink sold by a theater. Price is in whole VND and
// is owned by the API; the booking flow never trusts a carried price.
type FoodItem struct {
	ID          int64  `json:"id"`
	TheaterID   int64  `json:"theaterId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}
