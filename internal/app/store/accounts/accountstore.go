// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEmail = errors.New("User with this email already exists")
	ErrNotFound       = errors.New("account not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create inserts a new account. Email is stored lowercased; the unique
// index on it turns a re-registration into ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, a models.Account) (models.Account, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.DisplayNameCI = text.Fold(a.DisplayName)
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, a)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return a, nil
}

// GetByID retrieves an account by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// GetByEmail retrieves an account by email (lowercased before lookup).
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// ProfileUpdate carries the mutable profile fields. Pointer fields
// distinguish "not sent" (nil, leave alone) from "sent empty" (clear).
type ProfileUpdate struct {
	DisplayName *string
	StudentID   *string
	Department  *string
	CGPA        *float64
	Skills      *[]string
	Interests   *[]string
	Experience  *[]models.WorkExperience
	Education   *[]models.Education
}

// UpdateProfile applies a partial profile update. Email, role, and the
// password hash are not reachable from here.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, up ProfileUpdate) (models.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if up.DisplayName != nil && *up.DisplayName != "" {
		set["display_name"] = *up.DisplayName
		set["display_name_ci"] = text.Fold(*up.DisplayName)
	}
	if up.StudentID != nil {
		set["student_id"] = *up.StudentID
	}
	if up.Department != nil {
		set["department"] = *up.Department
	}
	if up.CGPA != nil {
		set["cgpa"] = *up.CGPA
	}
	if up.Skills != nil {
		set["skills"] = *up.Skills
	}
	if up.Interests != nil {
		set["interests"] = *up.Interests
	}
	if up.Experience != nil {
		set["work_experience"] = *up.Experience
	}
	if up.Education != nil {
		set["education"] = *up.Education
	}

	var a models.Account
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// SearchByName returns up to limit accounts whose folded display name has
// the given prefix. Used by the people-search behind connections.
func (s *Store) SearchByName(ctx context.Context, prefix string, limit int64) ([]models.Account, error) {
	filter := bson.M{}
	if p := text.Fold(prefix); p != "" {
		filter["display_name_ci"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(p)}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "display_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var accounts []models.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetMany retrieves the accounts with the given IDs, in no particular order.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var accounts []models.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Count returns the number of accounts matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
