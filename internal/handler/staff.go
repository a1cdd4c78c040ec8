package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// staffDepartment authenticates a staff request and returns the acting
// department. Gateway-terminated requests carry X-Staff-Department; direct
// requests (including EventSource, which cannot set headers) carry a JWT with
// a department claim, as a Bearer token or a token query param.
func staffDepartment(c *gin.Context, jwtSecret string) (string, error) {
	if dept := c.GetHeader("X-Staff-Department"); dept != "" {
		return dept, nil
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		auth := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(auth, "Bearer ")
		if tokenString == auth {
			tokenString = ""
		}
	}
	if tokenString == "" {
		return "", errors.New("missing credentials")
	}

	claims, err := validateToken(tokenString, jwtSecret)
	if err != nil {
		return "", err
	}

	dept, ok := claims["department"].(string)
	if !ok || dept == "" {
		return "", errors.New("missing department claim")
	}
	return dept, nil
}

func validateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
