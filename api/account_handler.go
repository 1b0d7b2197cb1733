package api

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/pressmark-io/blog-backend/database"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    tokenManager
}

func newAccountHandler(userRepo *database.UserRepo, tokens tokenManager) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// register creates a new account. Username and email uniqueness is enforced
// by the store; a duplicate comes back as a conflict.
func (h accountHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode register request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := validateRegistration(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: string(hash),
		}

		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, user)
	}
}

// login verifies credentials and issues a bearer token.
func (h accountHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode login request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Username == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("username"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		token, err := h.tokens.Issue(*user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, loginResponse{Token: token, User: *user})
	}
}

// me returns the caller's own account with their post count.
func (h accountHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		user, err := h.userRepo.FindByID(caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		postCount, err := h.userRepo.CountPosts(caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count user posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"user":      user,
			"postCount": postCount,
		})
	}
}

func validateRegistration(req registerRequest) error {
	if req.Username == "" {
		return errs.NewMissingRequiredFieldError("username")
	}
	if req.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errs.NewInvalidFieldError("email", "must be a valid email address")
	}
	if req.FirstName == "" {
		return errs.NewMissingRequiredFieldError("firstName")
	}
	if req.LastName == "" {
		return errs.NewMissingRequiredFieldError("lastName")
	}
	if req.Password == "" {
		return errs.NewMissingRequiredFieldError("password")
	}
	if req.Password != req.Password2 {
		return errs.NewInvalidFieldError("password", "password fields didn't match")
	}
	return nil
}
