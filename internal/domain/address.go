package domain

// Address maps a phone number in E.164 form to a free-text postal address.
// The phone number is the record's identity; nothing else is stored.
type Address struct {
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// NewAddress builds an Address. phone must already be normalized.
func NewAddress(phone, address string) *Address {
	return &Address{PhoneNumber: phone, Address: address}
}
