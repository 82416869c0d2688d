package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"time"

	"velour/apperr"
	"velour/db"
	"velour/models"
	"velour/rdx"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 8

// Register creates the identity, then writes the profile record best
// effort: a profile failure never rolls the identity back, it is
// surfaced as a structured warning instead of being swallowed.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if !emailPattern.MatchString(input.Email) {
		utils.RespondWithAppError(w, apperr.New(apperr.InvalidEmail, "email address is not valid"))
		return
	}
	if len(input.Password) < minPasswordLen {
		utils.RespondWithAppError(w, apperr.Newf(apperr.WeakPassword, "password must be at least %d characters", minPasswordLen))
		return
	}

	err := db.UsersCollection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		utils.RespondWithAppError(w, apperr.New(apperr.EmailInUse, "an account with this email already exists"))
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "database error"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Register hash error: %v", err)
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "could not process password"))
		return
	}

	now := time.Now()
	user := models.User{
		UserID:       utils.NewID("u"),
		Email:        input.Email,
		PasswordHash: string(hashed),
		DisplayName:  input.DisplayName,
		Role:         []string{"user"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.UsersCollection.InsertOne(ctx, user); err != nil {
		if db.IsDuplicateKeyError(err) {
			utils.RespondWithAppError(w, apperr.New(apperr.EmailInUse, "an account with this email already exists"))
			return
		}
		log.Println("Register InsertOne error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to register user"))
		return
	}

	// Best-effort secondary write.
	var warnings []string
	profile := models.Profile{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.ProfilesCollection.InsertOne(ctx, profile); err != nil {
		log.Println("Register profile write failed:", err)
		warnings = append(warnings, "profile record was not created; account is usable")
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"data":     utils.M{"userid": user.UserID},
		"warnings": warnings,
		"error":    nil,
	})
}

// Login exchanges email+password for an access/refresh token pair.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := db.UsersCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "invalid email or password"))
		return
	}

	tokenString, err := generateAccessToken(user)
	if err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to generate token"))
		return
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to generate refresh token"))
		return
	}

	_, err = db.UsersCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(refreshToken),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
			"last_login":     time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to store refresh token"))
		return
	}

	if err := rdx.StoreSessionToken(user.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	notifyIdentityChange(user.UserID, true)

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"userid":       user.UserID,
	}, "Login successful", nil)
}

// Logout drops the session mirror and invalidates the refresh token.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "not signed in"))
		return
	}

	if _, err := db.UsersCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$unset": bson.M{"refresh_token": "", "refresh_expiry": ""}},
	); err != nil {
		log.Println("Logout error:", err)
	}
	if err := rdx.DropSessionToken(userID); err != nil {
		log.Printf("Redis token drop failed: %v", err)
	}

	notifyIdentityChange(userID, false)

	utils.SendResponse(w, http.StatusOK, nil, "Logged out", nil)
}

// RefreshToken rotates the access/refresh pair. The refresh token alone
// is the credential here: the access token may already be expired, which
// is exactly when rotation matters.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	var user models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"refresh_token": hashToken(input.RefreshToken)}).Decode(&user)
	if err != nil || !refreshValid(user, input.RefreshToken, time.Now()) {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "refresh token invalid or expired"))
		return
	}

	tokenString, err := generateAccessToken(user)
	if err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to generate token"))
		return
	}
	newRefresh, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to generate refresh token"))
		return
	}

	if _, err := db.UsersCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(newRefresh),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
		}},
	); err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to rotate refresh token"))
		return
	}

	if err := rdx.StoreSessionToken(user.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	notifyIdentityChange(user.UserID, true)

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":        tokenString,
		"refreshToken": newRefresh,
		"userid":       user.UserID,
	}, "Token refreshed", nil)
}

// Me serves GET /api/auth/me: the identity plus its profile fields.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "not signed in"))
		return
	}

	var user models.User
	if err := db.UsersCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithAppError(w, apperr.New(apperr.NotFound, "user not found"))
		return
	}

	// Profile is best-effort at creation, so it may be absent.
	var profile *models.Profile
	var p models.Profile
	if err := db.ProfilesCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&p); err == nil {
		profile = &p
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"user":    user,
		"profile": profile,
	})
}
