package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavm03/storedesk/internal/models"
	"github.com/arnavm03/storedesk/internal/utils"
)

// AuthService owns the signup/login/logout lifecycle and the per-user
// session list.
type AuthService struct {
	users     *mongo.Collection
	jwtSecret string
}

func NewAuthService(database *mongo.Database, jwtSecret string) *AuthService {
	return &AuthService{users: database.Collection("users"), jwtSecret: jwtSecret}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type SignupInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	City           string `json:"city"`
	State          string `json:"state"`
	PhoneNumber    string `json:"phoneNumber"`
	ProfilePicture string `json:"profilePicture"`
}

// Signup registers a new email account and issues its first session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return models.User{}, "", invalid("Name, email, and password are required")
	}
	if !models.ValidEmail(in.Email) {
		return models.User{}, "", invalid(in.Email + " is not a valid email address")
	}
	if len(in.Password) < 6 {
		return models.User{}, "", invalid("Password must be at least 6 characters long")
	}

	var existing models.User
	if err := s.users.FindOne(ctx, bson.M{"email": in.Email}).Decode(&existing); err == nil {
		return models.User{}, "", ErrDuplicateEmail
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           in.Name,
		Email:          in.Email,
		Password:       hashed,
		Role:           models.RoleUser,
		RegisterType:   models.RegisterEmail,
		AccVerified:    false,
		ActiveSessions: []string{},
		City:           in.City,
		State:          in.State,
		PhoneNumber:    in.PhoneNumber,
		ProfilePicture: in.ProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", ErrDuplicateEmail
		}
		return models.User{}, "", err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return models.User{}, "", err
	}
	user.AddSession(token)
	if err := s.saveSessions(ctx, &user); err != nil {
		return models.User{}, "", err
	}

	user.Password = ""
	return user, token, nil
}

// Login authenticates credentials and issues a session token. Unknown
// email and wrong password fail identically so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, "", invalid("Email and password are required")
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, "", ErrInvalidCredentials
	} else if err != nil {
		return models.User{}, "", err
	}

	if !VerifyPassword(password, user.Password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return models.User{}, "", err
	}

	// AddSession evicts the oldest entry first when the cap is reached.
	user.AddSession(token)
	if err := s.saveSessions(ctx, &user); err != nil {
		return models.User{}, "", err
	}

	user.Password = ""
	return user, token, nil
}

// Logout removes exactly the presented token from the user's session list.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseJWT(token, s.jwtSecret)
	if err != nil {
		return ErrInvalidToken
	}

	objID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrInvalidToken
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	user.RemoveSession(token)
	return s.saveSessions(ctx, &user)
}

type OAuthInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Image    string `json:"image"`
	Provider string `json:"provider"`
}

// OAuthSignIn creates an account on first sign-in with a provider and is a
// no-op on every subsequent one. OAuth accounts are verified immediately
// and get a random throwaway password that is never used for login.
func (s *AuthService) OAuthSignIn(ctx context.Context, in OAuthInput) error {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		return invalid("Email is required")
	}

	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"email": in.Email}).Decode(&existing)
	if err == nil {
		return nil
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	name := in.Name
	if name == "" {
		name = strings.SplitN(in.Email, "@", 2)[0]
	}
	registerType := models.RegisterType(in.Provider)
	if !registerType.Valid() {
		registerType = models.RegisterGithub
	}

	hashed, err := HashPassword(uuid.NewString())
	if err != nil {
		return err
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Email:          in.Email,
		Password:       hashed,
		Role:           models.RoleUser,
		RegisterType:   registerType,
		AccVerified:    true,
		ActiveSessions: []string{},
		ProfilePicture: in.Image,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		// A concurrent first sign-in already created the account.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	return nil
}

// SeedSuperadmin bootstraps the superadmin account. The boolean result is
// false when the account already existed.
func (s *AuthService) SeedSuperadmin(ctx context.Context) (models.User, bool, error) {
	const seedEmail = "superadmin@demo.com"

	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"email": seedEmail}).Decode(&existing)
	if err == nil {
		existing.Password = ""
		return existing, false, nil
	} else if err != mongo.ErrNoDocuments {
		return models.User{}, false, err
	}

	hashed, err := HashPassword("admin@123")
	if err != nil {
		return models.User{}, false, err
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           "Super Admin",
		Email:          seedEmail,
		Password:       hashed,
		Role:           models.RoleSuperadmin,
		RegisterType:   models.RegisterEmail,
		AccVerified:    true,
		ActiveSessions: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, false, err
	}

	user.Password = ""
	return user, true, nil
}

func (s *AuthService) saveSessions(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"activeSessions": u.ActiveSessions,
		"updatedAt":      u.UpdatedAt,
	}})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
