package model

// Voucher is a discount code. Exactly one of DiscountPercent and
// DiscountAmount is expected to be set; the booking API applies it.
type Voucher struct {
	ID              int64  `json:"id,omitempty"`
	TheaterID       int64  `json:"theaterId,omitempty"`
	Code            string `json:"code" validate:"required,alphanum,max=32"`
	Description     string `json:"description,omitempty"`
	DiscountPercent int    `json:"discountPercent,omitempty" validate:"omitempty,min=1,max=100"`
	DiscountAmount  int64  `json:"discountAmount,omitempty" validate:"omitempty,gt=0"`
	StartDate       string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity        int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}
