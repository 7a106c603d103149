package reminder

import (
	"context"
	"encoding/json"

	"github.com/arleipolo/storefront-backend/internal/cart"
)

// SessionKey is the key the storefront records the signed-in user under,
// alongside the cart in the same session medium.
const SessionKey = "session_user"

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionIdentity resolves the recipient from the session medium at check
// time. A session with no recorded user, or an unreachable medium, reads as
// anonymous.
func SessionIdentity(medium cart.Medium) Identity {
	return IdentityFunc(func(ctx context.Context) (Recipient, bool) {
		if medium == nil {
			return Recipient{}, false
		}
		blob, ok, err := medium.Read(ctx, SessionKey)
		if err != nil || !ok {
			return Recipient{}, false
		}
		var user sessionUser
		if err := json.Unmarshal([]byte(blob), &user); err != nil || user.Email == "" {
			return Recipient{}, false
		}
		return Recipient{Email: user.Email, Name: user.Name}, true
	})
}

// StaticIdentity always resolves to the given recipient. An empty email
// reads as anonymous.
func StaticIdentity(email, name string) Identity {
	return IdentityFunc(func(context.Context) (Recipient, bool) {
		if email == "" {
			return Recipient{}, false
		}
		return Recipient{Email: email, Name: name}, true
	})
}
