package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"inventory/models"
	"inventory/utils"
)

// Locals keys set by JWTMiddleware.
const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
)

// JWTMiddleware validates the JWT token provided in the Authorization header and
// stores the user's id and role in the request locals.
func JWTMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
		}

		claims := &models.JwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.Role)

		return c.Next()
	}
}

// RoleRequired allows the request through only if the authenticated user has one
// of roles.
func RoleRequired(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if ok {
			for _, allowed := range roles {
				if role == allowed {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": message})
	}
}

// ChiefRequired checks that the user has the 'chief' role.
var ChiefRequired = RoleRequired("Chief access required", utils.RoleChief)

// StaffRequired checks that the user is a chief or a manager.
var StaffRequired = RoleRequired("Staff access required", utils.RoleChief, utils.RoleManager)

// SupplierRequired checks that the user has the 'supplier' role.
var SupplierRequired = RoleRequired("Supplier access required", utils.RoleSupplier)

// UserID returns the authenticated user's id.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
