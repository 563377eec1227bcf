package model

// Theater is a cinema venue as returned by the booking API. A theater has
// screens and sells its own food inventory.
//
// Fields:
//
//	ID      – theater identifier.
//	OwnerID – user id of the theater owner.
//	Name    – display name.
//	Address – street address.
//	City    – city the theater is in.
//	Phone   – contact number.
//	Status  – ACTIVE or INACTIVE.
type Theater struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"ownerId,omitempty"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,vnphone"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
