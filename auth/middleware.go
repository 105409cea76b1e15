package auth

import (
	"strings"

	"portfolio-builder/internal/errors"
	"portfolio-builder/redis"

	"github.com/gin-gonic/gin"
)

func AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		// verify token
		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := UserIDFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		// check token has not been revoked
		if !redis.TokenExists(ctx.Request.Context(), token) {
			ctx.Error(errors.Unauthorized("Token expired or not found", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}

// OptionalAuth resolves the user id when a valid token is present but never
// aborts. Public routes use it to decide between owner and visitor views.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := VerifyJWT(token)
		if err != nil {
			ctx.Next()
			return
		}

		userID, err := UserIDFromToken(parsedToken)
		if err != nil || !redis.TokenExists(ctx.Request.Context(), token) {
			ctx.Next()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Next()
	}
}
