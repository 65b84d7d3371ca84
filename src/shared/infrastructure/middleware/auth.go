package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ContextAttendantID clave del gin.Context con el uuid del atendente autenticado
	ContextAttendantID = "attendant_id"
	// ContextRole clave del gin.Context con el rol del atendente
	ContextRole = "role"

	// RoleAdmin rol con permisos sobre ventas de cualquier atendente
	RoleAdmin = "admin"
	// RoleAttendant rol básico: opera solo sobre sus propias ventas
	RoleAttendant = "attendant"
)

// JWTAuth valida el Bearer token y deja el actor en el contexto.
// Corta con 401 antes de ejecutar cualquier lógica del ledger.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization bearer token is required"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		sub, _ := claims["sub"].(string)
		attendantID, err := uuid.Parse(sub)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject claim"})
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleAttendant
		}

		ctx.Set(ContextAttendantID, attendantID)
		ctx.Set(ContextRole, role)
		ctx.Next()
	}
}

// ActorFrom recupera el atendente autenticado del contexto
func ActorFrom(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get(ContextAttendantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// IsAdmin indica si el actor del contexto tiene rol admin
func IsAdmin(ctx *gin.Context) bool {
	return ctx.GetString(ContextRole) == RoleAdmin
}
