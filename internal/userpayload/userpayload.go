package userpayload

import (
	"net/http"

	"github.com/SergeyParamoshkin/news/internal/model"
)

// UserPayload is the public view of a resolved user reference: no role, no
// credentials.
type UserPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// NewUserPayloadResponse returns nil for a reference that did not resolve.
func NewUserPayloadResponse(u *model.User) *UserPayload {
	if u == nil {
		return nil
	}

	return &UserPayload{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
