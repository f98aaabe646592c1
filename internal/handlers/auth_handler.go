package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"

	"heavymachines/internal/config"
	"heavymachines/internal/cryptox"
	"heavymachines/internal/middleware"
	"heavymachines/internal/models"
	"heavymachines/internal/repository"
	"heavymachines/internal/services"
)

const resetTokenExpiry = 10 * time.Minute

type AuthHandler struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	mailer services.EmailSender
	cfg    *config.Config
	v      *validator.Validate
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender) *AuthHandler {
	return &AuthHandler{
		users:  repository.NewUserRepository(db),
		resets: repository.NewPasswordResetRepository(db),
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Advisory pre-check; the unique constraint is the final arbiter.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeJSONError(w, http.StatusBadRequest, "email_taken", "Email already registered")
		return
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create user")
		return
	}

	u := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if isUniqueViolation(err) {
			writeJSONError(w, http.StatusBadRequest, "email_taken", "Email already registered")
			return
		}
		log.Printf("Failed to create user: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Unknown email and wrong password collapse to the same response.
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	ok, err := cryptox.VerifyPassword(req.Password, u.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			log.Printf("Failed to verify password for user %d: %v", u.ID, err)
		}
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	expiresIn := h.cfg.JWTExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 86400
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(u.ID, 10),
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		log.Printf("Failed to sign token: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		AccessToken: signed,
		ExpiresIn:   expiresIn,
	})
}

// RequestPasswordReset issues a 6-digit reset code for the email and mails
// it. The response is identical whether or not an account exists and whether
// or not the mail went out.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	token, err := generateResetToken()
	if err != nil {
		log.Printf("Failed to generate reset token: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to process request")
		return
	}

	entry := &models.PasswordResetToken{
		Email:     req.Email,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(resetTokenExpiry),
	}
	if err := h.resets.Upsert(r.Context(), entry); err != nil {
		log.Printf("Failed to store reset token: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to process request")
		return
	}

	// Mail failure must not change the outcome.
	if h.mailer == nil {
		log.Printf("Reset mail not sent to %s: mailer not configured", req.Email)
	} else {
		body := fmt.Sprintf(
			"Your Password Reset Token is: %s\n\nThis code will expire in %d minutes.\nPlease enter this code in the reset form to continue.",
			token, int(resetTokenExpiry.Minutes()),
		)
		if err := h.mailer.Send(req.Email, "Password Reset Token", body); err != nil {
			log.Printf("Failed to send reset mail to %s: %v", req.Email, err)
		}
	}

	writeJSONMessage(w, http.StatusOK, resetRequestedMessage(req.Email))
}

// UpdatePassword consumes a reset token. Missing row, token mismatch and
// expiry all collapse to the same 400; a valid token for a vanished account
// is the only distinguishable failure.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	entry, err := h.resets.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid, expired, or used token.")
		return
	}
	// Exact string match; at-or-past expiry is expired.
	if entry.Token != req.Token || !entry.ExpiresAt.After(time.Now().UTC()) {
		writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid, expired, or used token.")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err := h.resets.Delete(r.Context(), req.Email); err != nil {
			log.Printf("Failed to delete reset token for %s: %v", req.Email, err)
		}
		writeJSONError(w, http.StatusNotFound, "user_not_found", "User account not found.")
		return
	}

	hash, err := cryptox.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update password")
		return
	}
	if err := h.users.UpdatePasswordHash(r.Context(), u.ID, hash); err != nil {
		log.Printf("Failed to update password for user %d: %v", u.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to update password")
		return
	}

	if err := h.resets.Delete(r.Context(), req.Email); err != nil {
		log.Printf("Failed to delete reset token for %s: %v", req.Email, err)
	}

	writeJSONMessage(w, http.StatusOK, "Password successfully updated. You can now log in.")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sub, _ := r.Context().Value(middleware.CtxUserID).(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_token", "Invalid token subject")
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "user_not_found", "User account not found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	})
}

func resetRequestedMessage(email string) string {
	return fmt.Sprintf(
		"If an account exists for %s, a reset code has been sent. It expires in %d minutes.",
		email, int(resetTokenExpiry.Minutes()),
	)
}

// generateResetToken returns a uniformly random 6-digit code in
// [100000, 999999].
func generateResetToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
