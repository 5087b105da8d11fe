package identityclient

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
)

// Adapter looks up profile details for a uid in Firebase Auth.
type Adapter struct {
	client *auth.Client
}

func NewAdapter(client *auth.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) LookupUser(ctx context.Context, uid string) (dto.UserInfo, error) {
	rec, err := a.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return dto.UserInfo{}, errs.NewNotFoundError("auth user not found")
		}
		return dto.UserInfo{}, err
	}
	if rec.UserInfo == nil {
		return dto.UserInfo{}, nil
	}
	return dto.UserInfo{
		DisplayName: rec.DisplayName,
		Email:       rec.Email,
		PhotoURL:    rec.PhotoURL,
	}, nil
}
