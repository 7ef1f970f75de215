package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// ResetMailer delivers password-reset links. Failures are reported to the
// caller, not swallowed.
type ResetMailer interface {
	SendResetEmail(ctx context.Context, to, name, link string) error
}

type Handler struct {
	Users     UserStore
	Mailer    ResetMailer
	JWTSecret []byte
	ClientURL string
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	if body.Name == "" || body.Email == "" || !strings.Contains(body.Email, "@") {
		return fiber.NewError(fiber.StatusBadRequest, "name and valid email required")
	}
	if len(body.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	user, err := h.Users.Create(userContext(c), body.Name, body.Email, string(hashed))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "user already exists")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.GetByEmail(userContext(c), strings.TrimSpace(body.Email))
	if err != nil {
		// Same answer for unknown email and wrong password.
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Users.GetByID(userContext(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

const forgotReply = "If the email exists, a reset link was sent."

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var body forgotRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := userContext(c)
	user, err := h.Users.GetByEmail(ctx, strings.TrimSpace(body.Email))
	if err != nil {
		// Do not reveal whether the address is registered.
		return c.JSON(fiber.Map{"message": forgotReply})
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	rawToken := hex.EncodeToString(raw)
	hashed := sha256.Sum256([]byte(rawToken))

	expires := time.Now().Add(time.Hour)
	if err := h.Users.SetResetToken(ctx, user.ID, hex.EncodeToString(hashed[:]), expires); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	link := strings.TrimRight(h.ClientURL, "/") + "/reset-password?token=" + rawToken
	if err := h.Mailer.SendResetEmail(ctx, user.Email, user.Name, link); err != nil {
		log.Printf("reset email to %s failed: %v", user.Email, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not send reset email")
	}

	return c.JSON(fiber.Map{"message": forgotReply})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var body resetRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(body.Token) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token required")
	}
	if len(body.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	ctx := userContext(c)
	hashed := sha256.Sum256([]byte(body.Token))
	user, err := h.Users.GetByResetToken(ctx, hex.EncodeToString(hashed[:]), time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired token")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	if err := h.Users.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully"})
}

func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if _, err := h.Users.DeleteCascade(userContext(c), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete account")
	}

	return c.JSON(fiber.Map{"message": "User and all jobs deleted successfully"})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
