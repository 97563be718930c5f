package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/config"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/services"
	"github.com/RimshaArfeen/diro/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB            *mongo.Client
	googleAuth    *services.GoogleAuthService
	logger        *log.Logger
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:         db,
		googleAuth: services.NewGoogleAuthService(),
		logger:     log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Signup registers a local account. The same email may sign up once
// per role; the (email, role) unique index turns a duplicate into a
// conflict response.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	var msgs []string
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		msgs = append(msgs, "email: Please provide a valid email")
	}
	req.Name = utils.SanitizeInput(req.Name)
	if len(req.Name) < 2 {
		msgs = append(msgs, "name: Name must be at least 2 characters")
	}
	if len(req.Password) < 8 {
		msgs = append(msgs, "password: Password must be at least 8 characters")
	}
	if !models.ValidRole(req.Role) {
		msgs = append(msgs, "role: Role must be creator, brand, or admin")
	}
	if len(msgs) > 0 {
		return utils.RespondError(c, ac.logger, utils.ValidationError(msgs...))
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	now := time.Now()
	user := models.User{
		UserID: utils.GenerateID("user"),
		Name:   req.Name,
		Email:  email,
		Credential: models.Credential{
			Kind:         models.CredentialLocal,
			PasswordHash: hash,
		},
		Role: req.Role,
		SocialAccounts: models.SocialAccounts{
			Instagram: utils.SanitizeInput(req.Instagram),
			TikTok:    utils.SanitizeInput(req.TikTok),
			YouTube:   utils.SanitizeInput(req.YouTube),
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if credMsgs := user.Credential.Validate(); len(credMsgs) > 0 {
		return utils.RespondError(c, ac.logger, utils.ValidationError(credMsgs...))
	}

	collection := config.GetCollection(ac.DB, "users")
	if _, err := collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.RespondError(c, ac.logger, utils.ConflictError("An account with this email and role already exists"))
		}
		return utils.RespondError(c, ac.logger, err)
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Email, user.Role)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    models.AuthData{Token: token, User: user},
	})
}

// Login authenticates a local account by email (+ optional role when
// the same email holds several accounts).
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("email: Please provide a valid email"))
	}

	if ac.tooManyAttempts(email) {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	filter := bson.M{"email": email}
	if req.Role != "" {
		filter["role"] = req.Role
	}

	var user models.User
	collection := config.GetCollection(ac.DB, "users")
	if err := collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedAttempt(email)
			return utils.RespondError(c, ac.logger, utils.AuthenticationError("Invalid credentials"))
		}
		return utils.RespondError(c, ac.logger, err)
	}

	if user.Credential.Kind != models.CredentialLocal {
		return utils.RespondError(c, ac.logger, utils.AuthenticationError("This account signs in with "+user.Credential.Kind))
	}
	if err := utils.CheckPassword(req.Password, user.Credential.PasswordHash); err != nil {
		ac.recordFailedAttempt(email)
		return utils.RespondError(c, ac.logger, utils.AuthenticationError("Invalid credentials"))
	}
	if !user.IsActive {
		return utils.RespondError(c, ac.logger, utils.AuthenticationError("User account is inactive"))
	}

	ac.clearAttempts(email)

	token, err := middleware.GenerateJWT(user.UserID, user.Email, user.Role)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.AuthData{Token: token, User: user},
	})
}

// GoogleAuth signs a user in with a verified Google ID token, creating
// a federated creator account on first sight of the identity.
func (ac *AuthController) GoogleAuth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	identity, err := ac.googleAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return utils.RespondError(c, ac.logger, utils.AuthenticationError("Invalid Google token"))
	}

	role := req.Role
	if role == "" {
		role = models.RoleCreator
	}
	if role == models.RoleAdmin || !models.ValidRole(role) {
		return utils.RespondError(c, ac.logger, utils.ValidationError("role: Role must be creator or brand"))
	}

	collection := config.GetCollection(ac.DB, "users")

	var user models.User
	err = collection.FindOne(ctx, bson.M{"email": identity.Email, "role": role}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			UserID: utils.GenerateID("user"),
			Name:   identity.Name,
			Email:  identity.Email,
			Credential: models.Credential{
				Kind:       models.CredentialGoogle,
				Provider:   "google",
				ExternalID: identity.GoogleID,
			},
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, insertErr := collection.InsertOne(ctx, user); insertErr != nil {
			return utils.RespondError(c, ac.logger, insertErr)
		}
	} else if err != nil {
		return utils.RespondError(c, ac.logger, err)
	} else {
		if user.Credential.Kind != models.CredentialGoogle || user.Credential.ExternalID != identity.GoogleID {
			return utils.RespondError(c, ac.logger, utils.AuthenticationError("This account does not sign in with Google"))
		}
		if !user.IsActive {
			return utils.RespondError(c, ac.logger, utils.AuthenticationError("User account is inactive"))
		}
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Email, user.Role)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.AuthData{Token: token, User: user},
	})
}

// Validate returns the account behind the presented token.
func (ac *AuthController) Validate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, ac.logger, utils.AuthenticationError(""))
	}

	var user models.User
	collection := config.GetCollection(ac.DB, "users")
	if err := collection.FindOne(ctx, bson.M{"userId": claims.UserID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, ac.logger, utils.AuthenticationError("User not found"))
		}
		return utils.RespondError(c, ac.logger, err)
	}
	if !user.IsActive {
		return utils.RespondError(c, ac.logger, utils.AuthenticationError("User account is inactive"))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data:    user,
	})
}

func (ac *AuthController) tooManyAttempts(identifier string) bool {
	ac.loginAttemptsMu.RLock()
	defer ac.loginAttemptsMu.RUnlock()
	attempts, exists := ac.loginAttempts[identifier]
	return exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	attempts := ac.loginAttempts[identifier]
	ac.loginAttempts[identifier] = struct {
		count       int
		lastAttempt time.Time
	}{count: attempts.count + 1, lastAttempt: time.Now()}
}

func (ac *AuthController) clearAttempts(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	delete(ac.loginAttempts, identifier)
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(1 * time.Hour)
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if time.Since(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}
