// internal/app/features/auth/handler.go

// Package auth serves registration, login, and the current-account
// endpoint. Registration owns the role/email-domain partition; login
// issues the bearer token every other endpoint consumes.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
	"github.com/campusworks/placementhub/internal/app/system/authz"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/app/system/validators"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the account registration and login endpoints.
type Handler struct {
	DB            *mongo.Database
	Tokens        *sysauth.Manager
	StudentDomain string
	BcryptCost    int
	Log           *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and token
// manager.
func NewHandler(db *mongo.Database, tokens *sysauth.Manager, studentDomain string, bcryptCost int, logger *zap.Logger) *Handler {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Handler{
		DB:            db,
		Tokens:        tokens,
		StudentDomain: studentDomain,
		BcryptCost:    bcryptCost,
		Log:           logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Success   bool           `json:"success"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      models.Account `json:"user"`
}

// HandleRegister processes POST /api/auth/register. Role defaults to
// student; students must carry the institutional email domain and
// recruiters/admins must not.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}

	if err := validators.ValidateRegistration(validators.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, h.StudentDomain); err != nil {
		respond.Err(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	accounts := accountstore.New(h.DB)
	account, err := accounts.Create(ctx, models.Account{
		DisplayName:  req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         validators.NormalizedRole(req.Role),
	})
	if err != nil {
		if err == accountstore.ErrDuplicateEmail {
			respond.ErrMessage(w, apierr.Conflict, err.Error())
			return
		}
		h.Log.Error("account create failed", zap.Error(err))
		respond.Err(w, err)
		return
	}

	token, expiresAt, err := h.Tokens.Issue(account)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Err(w, err)
		return
	}

	h.Log.Info("account registered",
		zap.String("account_id", account.ID.Hex()),
		zap.String("role", account.Role))
	respond.JSON(w, http.StatusCreated, authResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin processes POST /api/auth/login. Unknown email and wrong
// password produce the same response, so the endpoint does not reveal
// which addresses are registered.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.ErrMessage(w, apierr.Validation, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	accounts := accountstore.New(h.DB)
	account, err := accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == accountstore.ErrNotFound {
			respond.ErrMessage(w, apierr.Unauthenticated, "Invalid email or password")
			return
		}
		respond.Err(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		respond.ErrMessage(w, apierr.Unauthenticated, "Invalid email or password")
		return
	}

	token, expiresAt, err := h.Tokens.Issue(account)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Err(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, authResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account,
	})
}

type meResponse struct {
	Success bool           `json:"success"`
	User    models.Account `json:"user"`
}

// HandleMe processes GET /api/auth/me: the account behind the presented
// token, with the current (not token-time) profile.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	account, err := accountstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		if err == accountstore.ErrNotFound {
			respond.ErrMessage(w, apierr.Unauthenticated, "Invalid or expired token")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, meResponse{Success: true, User: account})
}
