package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arnavm03/storedesk/internal/models"
	"github.com/arnavm03/storedesk/internal/query"
)

// Fields a client may never set through an update, on any path.
var userProtectedFields = []string{
	"id", "_id", "password", "email", "registerType", "accVerified",
	"activeSessions", "createdAt", "updatedAt",
}

// userSearch describes how the users collection is searched.
var userSearch = query.Definition{
	SearchFields: []string{"name", "email", "phoneNumber"},
	Exact: map[string]string{
		"role":         "role",
		"registerType": "registerType",
	},
	Substring: map[string]string{
		"city":  "city",
		"state": "state",
	},
	Bool: map[string]string{
		"accVerified": "accVerified",
	},
	DefaultSortBy:    "createdAt",
	DefaultSortOrder: "desc",
}

// noPassword excludes the password hash from read results.
var noPassword = bson.M{"password": 0}

// UserService is the superadmin-facing CRUD over the users collection.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(database *mongo.Database) *UserService {
	return &UserService{users: database.Collection("users")}
}

// List returns every user, newest first, without password hashes.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(noPassword)
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type CreateUserInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	City        string `json:"city"`
	State       string `json:"state"`
	PhoneNumber string `json:"phoneNumber"`
}

// Create adds a user on the admin path. Accounts created here are
// verified immediately.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return models.User{}, invalid("Name, email, and password are required")
	}
	if !models.ValidEmail(in.Email) {
		return models.User{}, invalid(in.Email + " is not a valid email address")
	}
	if len(in.Password) < 6 {
		return models.User{}, invalid("Password must be at least 6 characters long")
	}
	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	} else if !role.Valid() {
		return models.User{}, invalid("Invalid role")
	}

	var existing models.User
	if err := s.users.FindOne(ctx, bson.M{"email": in.Email}).Decode(&existing); err == nil {
		return models.User{}, ErrDuplicateEmail
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           in.Name,
		Email:          in.Email,
		Password:       hashed,
		Role:           role,
		RegisterType:   models.RegisterEmail,
		AccVerified:    true,
		ActiveSessions: []string{},
		City:           in.City,
		State:          in.State,
		PhoneNumber:    in.PhoneNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// Get fetches one user without the password hash.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrInvalidID
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": objID}, options.FindOne().SetProjection(noPassword)).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	} else if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateAdmin applies a partial update on the user-management path. The
// role may be changed here; credentials and session state may not.
func (s *UserService) UpdateAdmin(ctx context.Context, id string, updates map[string]any) (models.User, error) {
	return s.update(ctx, id, updates, userProtectedFields)
}

// UpdateProfile applies a partial update on the self-service path, which
// additionally may not change the role.
func (s *UserService) UpdateProfile(ctx context.Context, id string, updates map[string]any) (models.User, error) {
	return s.update(ctx, id, updates, append([]string{"role"}, userProtectedFields...))
}

func (s *UserService) update(ctx context.Context, id string, updates map[string]any, protected []string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrInvalidID
	}

	StripFields(updates, protected...)
	if raw, ok := updates["role"]; ok {
		roleStr, isStr := raw.(string)
		if !isStr || !models.Role(roleStr).Valid() {
			return models.User{}, invalid("Invalid role")
		}
	}
	updates["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(noPassword)
	var user models.User
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": updates}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	} else if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes a user. The caller may not delete their own account, and
// superadmin accounts may not be deleted by anyone else.
func (s *UserService) Delete(ctx context.Context, id, callerID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if id == callerID {
		return ErrSelfDelete
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if user.Role == models.RoleSuperadmin {
		return ErrSuperadminDelete
	}

	_, err = s.users.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}

// Search runs the shared query builder over the users collection.
func (s *UserService) Search(ctx context.Context, p query.Params) ([]models.User, query.Pagination, error) {
	filter := userSearch.Filter(p)

	total, err := s.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, query.Pagination{}, err
	}

	page, limit := p.PageOrDefault(), p.LimitOrDefault()
	opts := options.Find().
		SetSort(userSearch.Sort(p)).
		SetSkip(p.Skip()).
		SetLimit(int64(limit)).
		SetProjection(noPassword)
	cursor, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, query.Pagination{}, err
	}
	return users, query.NewPagination(page, limit, total), nil
}

// StripFields removes the named keys from a client-supplied update map.
func StripFields(updates map[string]any, fields ...string) {
	for _, f := range fields {
		delete(updates, f)
	}
}
