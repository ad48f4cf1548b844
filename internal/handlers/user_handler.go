package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/auth"
	"github.com/snehitv/vidshare-server/internal/middlewares"
	"github.com/snehitv/vidshare-server/internal/models"
	"github.com/snehitv/vidshare-server/internal/store"
	"github.com/snehitv/vidshare-server/internal/utils"
)

type UserHandler struct {
	UserStore store.UserStore
	Tokens    *auth.TokenService
	Logger    *log.Logger
}

func NewUserHandler(userStore store.UserStore, tokens *auth.TokenService, logger *log.Logger) *UserHandler {
	return &UserHandler{
		UserStore: userStore,
		Tokens:    tokens,
		Logger:    logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (uh *UserHandler) HandlerRegisterUser(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		uh.Logger.Println("Error decoding register request:", err)
		utils.WriteError(w, apperror.BadRequest("Bad Request"))
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		uh.Logger.Println("Error: missing register fields")
		utils.WriteError(w, apperror.BadRequest("All fields are required!"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		uh.Logger.Println("Error hashing password:", err)
		utils.WriteError(w, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := uh.UserStore.CreateUser(user); err != nil {
		uh.Logger.Println("Error creating user:", err)
		utils.WriteError(w, err)
		return
	}

	token, err := uh.Tokens.Generate(user.ID)
	if err != nil {
		uh.Logger.Println("Error generating token:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{
		"message":  "User registered successfully",
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

// HandlerLoginUser answers unknown emails and wrong passwords identically,
// so the response never reveals whether an email is registered.
func (uh *UserHandler) HandlerLoginUser(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		uh.Logger.Println("Error decoding login request:", err)
		utils.WriteError(w, apperror.BadRequest("Bad Request"))
		return
	}

	if req.Email == "" || req.Password == "" {
		uh.Logger.Println("Error: missing login fields")
		utils.WriteError(w, apperror.BadRequest("All fields are required!"))
		return
	}

	user, err := uh.UserStore.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			uh.Logger.Println("Login attempt for unknown email")
			utils.WriteError(w, apperror.Unauthorized("Invalid credentials"))
			return
		}
		uh.Logger.Println("Error getting user by email:", err)
		utils.WriteError(w, err)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			uh.Logger.Println("Login attempt with wrong password")
			utils.WriteError(w, apperror.Unauthorized("Invalid credentials"))
			return
		}
		uh.Logger.Println("Error verifying password:", err)
		utils.WriteError(w, err)
		return
	}

	token, err := uh.Tokens.Generate(user.ID)
	if err != nil {
		uh.Logger.Println("Error generating token:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (uh *UserHandler) HandlerGetUserProfile(w http.ResponseWriter, r *http.Request) {

	caller, ok := middlewares.GetUserFromContext(r)
	if !ok {
		uh.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	user, err := uh.UserStore.GetUserByID(caller.ID)
	if err != nil {
		uh.Logger.Println("Error getting user profile:", err)
		utils.WriteError(w, err)
		return
	}

	// PasswordHash is json:"-" and never serialized.
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": user})
}
