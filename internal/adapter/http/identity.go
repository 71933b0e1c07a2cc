package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const (
	DeviceIDHeader   = "X-Device-ID"
	AdminTokenHeader = "X-Admin-Token"
)

// identities reads who is calling from the request headers: the device id
// the client was issued, plus the account behind a bearer session if any.
type identities struct {
	accounts interfaces.AccountService
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (i identities) resolve(ctx context.Context, r *http.Request) (domain.Identity, error) {
	who := domain.Identity{DeviceID: strings.TrimSpace(r.Header.Get(DeviceIDHeader))}

	if token := bearerToken(r); token != "" {
		user, err := i.accounts.Resolve(ctx, token)
		if err != nil {
			return domain.Identity{}, err
		}
		who.Email = user.Email
		who.Name = user.Name
	}

	if who.Empty() {
		return domain.Identity{}, domain.ErrMissingIdentity
	}
	return who, nil
}
