package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "homecare/pkg/errors"
	apphttp "homecare/pkg/http"
	"homecare/pkg/jwt"
	"homecare/pkg/model"
)

const (
	AccountIDKey contextKey = "account_id"
	RoleKey      contextKey = "role"
)

// Guard wraps individual routes with bearer-token authentication and an
// optional role allow list.
type Guard struct {
	jwtService *jwt.Service
}

func NewGuard(jwtService *jwt.Service) *Guard {
	return &Guard{jwtService: jwtService}
}

// Protect authenticates the request and, when roles are given, rejects
// callers whose role is not in the list. Identity lands in the request
// context under AccountIDKey and RoleKey.
func (g *Guard) Protect(next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			_ = apphttp.WriteError(w, apperrors.Unauthorized("missing authorization header"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			_ = apphttp.WriteError(w, apperrors.Unauthorized("authorization header must use Bearer scheme"))
			return
		}

		claims, err := g.jwtService.ValidateToken(token)
		if err != nil {
			_ = apphttp.WriteError(w, apperrors.Unauthorized("invalid or expired token"))
			return
		}

		role := model.Role(claims.Role)
		if len(allowed) > 0 {
			if _, ok := allowed[role]; !ok {
				_ = apphttp.WriteError(w, apperrors.Forbidden("insufficient permissions"))
				return
			}
		}

		ctx := context.WithValue(r.Context(), AccountIDKey, claims.AccountID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next(w, r.WithContext(ctx), ps)
	}
}

// AccountID returns the authenticated account ID stored by Protect.
func AccountID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDKey).(string)
	return id, ok
}

// Role returns the authenticated role stored by Protect.
func Role(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(RoleKey).(model.Role)
	return role, ok
}
