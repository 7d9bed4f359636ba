package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"inventory/database"
	"inventory/models"
	"inventory/utils"
)

// HandleRegister creates a staff or supplier account.
// POST /api/v1/auth/register
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	if _, err := h.store.GetUserByUsername(ctx, req.Username); err == nil {
		return errorJSON(c, fiber.StatusConflict, "Username already exists")
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger.Error("Error looking up username", "username", req.Username, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Database error")
	}

	role, _ := utils.ValidateAndNormalizeRole(req.Role)
	isSupplier := role == utils.RoleSupplier
	if isSupplier {
		if err := utils.ValidateLength("name", "Company name", req.Name, 2, 0); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		if err := utils.ValidateLength("contactInfo", "Contact information", req.ContactInfo, 5, 0); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Error hashing password", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Could not process password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    h.now(),
	}

	if isSupplier {
		user.Role = utils.RoleSupplier
		supplier := &models.Supplier{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Name:        req.Name,
			ContactInfo: req.ContactInfo,
			CreatedAt:   user.CreatedAt,
		}
		err = h.store.CreateSupplierUser(ctx, user, supplier)
	} else {
		err = h.store.CreateStaffUser(ctx, user)
	}
	if errors.Is(err, database.ErrDuplicate) {
		return errorJSON(c, fiber.StatusConflict, "Username already exists")
	}
	if err != nil {
		h.logger.Error("Error creating user", "username", req.Username, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Could not create user")
	}

	h.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("User %s registered as %s", user.Username, user.Role),
		"data":    user,
	})
}

// HandleLogin authenticates a user and returns a JWT token.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	user, err := h.store.GetUserByUsername(c.UserContext(), req.Username)
	if errors.Is(err, database.ErrNotFound) {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		h.logger.Error("Database error during login", "username", req.Username, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Database error")
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.createJWT(user.ID, user.Role)
	if err != nil {
		h.logger.Error("Error creating JWT", "user_id", user.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Could not sign token")
	}

	return c.JSON(fiber.Map{"accessToken": token, "user": user})
}

// --- Helper Functions ---

func (h *Handler) createJWT(userID, role string) (string, error) {
	now := h.now()
	claims := models.JwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
