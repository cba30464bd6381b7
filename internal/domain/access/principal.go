package access

import "github.com/foodgram/foodgram/internal/domain/apperrors"

// Principal is the caller a request acts for. The zero value is anonymous.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

var Anonymous = Principal{}

func (p Principal) IsAuthenticated() bool {
	return p.UserID > 0
}

// CanModify reports whether p may change a resource owned by ownerID.
func (p Principal) CanModify(ownerID int64) bool {
	return p.IsAuthenticated() && (p.IsAdmin || p.UserID == ownerID)
}

// RequireAuthenticated returns Unauthorized for anonymous callers.
func RequireAuthenticated(p Principal) error {
	if !p.IsAuthenticated() {
		return apperrors.Unauthorized()
	}
	return nil
}
