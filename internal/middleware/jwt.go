package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the authenticated identity into the request
// context. Handlers read it back via c.Get("user_id") (uint64),
// c.Get("role") and c.Get("email") (strings). The secret must match
// the one the identity provider signs tokens with.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            userID, err := subjectID(claims)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }

            c.Set("user_id", userID)
            if role, ok := claims["role"].(string); ok {
                c.Set("role", role)
            }
            if email, ok := claims["email"].(string); ok {
                c.Set("email", email)
            }
            return next(c)
        }
    }
}

// subjectID parses the sub claim into a numeric user ID. Tokens carry
// it either as a string or as a JSON number.
func subjectID(claims jwt.MapClaims) (uint64, error) {
    switch v := claims["sub"].(type) {
    case string:
        return strconv.ParseUint(v, 10, 64)
    case float64:
        return uint64(v), nil
    default:
        return 0, jwt.ErrTokenInvalidSubject
    }
}

// UserID returns the authenticated user's ID stored by JWTAuth, or 0
// when the request is unauthenticated.
func UserID(c echo.Context) uint64 {
    if id, ok := c.Get("user_id").(uint64); ok {
        return id
    }
    return 0
}

// Role returns the authenticated user's role, or "" when absent.
func Role(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return r
    }
    return ""
}

// Email returns the authenticated user's email, or "" when absent.
func Email(c echo.Context) string {
    if e, ok := c.Get("email").(string); ok {
        return e
    }
    return ""
}
