package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserName  string             `bson:"userName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		UserName:     d.UserName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if err := ensureUniqueIndex(ctx, r.col, "email"); err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, r.col, "userName")
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		UserName:  user.UserName,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email_1") {
				return "", domain.Wrap(domain.KindConflict, "Email already exists", err)
			}
			return "", domain.Wrap(domain.KindConflict, "Username already exists", err)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"userName": userName})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id, "User not found")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.E(domain.KindNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}
