package entity

import (
	"net/http"

	"servihogar/internal/lib/validate"
)

// Identity is the authenticated user as reported by the auth service.
type Identity struct {
	ID    string `json:"id" bson:"id" validate:"required"`
	Name  string `json:"name" bson:"name" validate:"omitempty"`
	Email string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone string `json:"phone" bson:"phone" validate:"omitempty"`
}

type IdentityRequest struct {
	Token string `json:"token" validate:"required,min=1"`
}

func (r *IdentityRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}
