package profile

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
)

// PlaceholderEmailDomain backs the email of users created from a phone sign-in.
const PlaceholderEmailDomain = "sonumarket.cg"

// User is the signed-in profile. Optional collections are empty slices, never nil,
// once they pass through the Manager.
type User struct {
	ID             string            `json:"id" validate:"required"`
	Name           string            `json:"name" validate:"required,max=120"`
	Email          string            `json:"email" validate:"required,email"`
	Avatar         *string           `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone          *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	Addresses      []Address         `json:"addresses" validate:"dive"`
	PaymentMethods []PaymentMethod   `json:"payment_methods" validate:"dive"`
	Wishlist       []catalog.Product `json:"wishlist"`
}

// Address is a saved delivery address.
type Address struct {
	ID     string `json:"id"`
	Label  string `json:"label" validate:"required,max=60"`
	Street string `json:"street" validate:"required,max=200"`
	City   string `json:"city" validate:"required,max=100"`
}

// PaymentMethod is a saved wallet or card. Number is stored masked or as the wallet phone.
type PaymentMethod struct {
	ID         string                  `json:"id"`
	Type       enums.PaymentMethodType `json:"type" validate:"required,oneof=momo airtel card"`
	Provider   string                  `json:"provider" validate:"max=40"`
	Number     string                  `json:"number" validate:"required,max=32"`
	HolderName string                  `json:"holder_name" validate:"required,max=120"`
	Expiry     *string                 `json:"expiry,omitempty" validate:"omitempty,max=5"`
}

// Settings are the editable identity fields.
type Settings struct {
	Name   string  `json:"name" validate:"required,max=120"`
	Email  string  `json:"email" validate:"required,email"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// FromPhone builds the profile created by a phone sign-in.
func FromPhone(phone string) User {
	phone = strings.TrimSpace(phone)
	suffix := phone
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return User{
		ID:    "user-" + phone,
		Name:  fmt.Sprintf("Utilisateur %s", suffix),
		Email: fmt.Sprintf("%s@%s", phone, PlaceholderEmailDomain),
		Phone: &phone,
	}
}

func (u User) clone() User {
	out := u
	out.Addresses = append([]Address{}, u.Addresses...)
	out.PaymentMethods = append([]PaymentMethod{}, u.PaymentMethods...)
	out.Wishlist = append([]catalog.Product{}, u.Wishlist...)
	return out
}

// defaultProvider fills the provider label the way the profile form does.
func defaultProvider(t enums.PaymentMethodType) string {
	switch t {
	case enums.PaymentMethodTypeMoMo:
		return "MTN"
	case enums.PaymentMethodTypeAirtel:
		return "Airtel"
	default:
		return "Visa"
	}
}
