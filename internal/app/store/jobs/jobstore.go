// internal/app/store/jobs/jobstore.go
package jobstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/app/policy/statuspolicy"
	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("job not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("job_postings")}
}

// Create inserts a new job posting, Open by default.
func (s *Store) Create(ctx context.Context, j models.JobPosting) (models.JobPosting, error) {
	now := time.Now().UTC()
	j.ID = primitive.NewObjectID()
	j.TitleCI = text.Fold(j.Title)
	j.CompanyCI = text.Fold(j.Company)
	if j.Status == "" {
		j.Status = statuspolicy.JobOpen
	}
	j.CreatedAt = now
	j.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, j); err != nil {
		return models.JobPosting{}, err
	}
	return j, nil
}

// GetByID retrieves a job posting by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JobPosting, error) {
	var j models.JobPosting
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.JobPosting{}, ErrNotFound
		}
		return models.JobPosting{}, err
	}
	return j, nil
}

// SearchFilter narrows the job feed. Zero values mean "no filter".
type SearchFilter struct {
	Keyword  string // matched against folded title and company
	Location string
	Status   string // "" lists Open only; "all" lists everything
	OwnerID  primitive.ObjectID
}

// Search returns job postings newest-first. The default feed shows Open
// postings; Closed and Filled remain readable when addressed directly or
// via Status "all".
func (s *Store) Search(ctx context.Context, f SearchFilter, limit int64) ([]models.JobPosting, error) {
	filter := bson.M{}
	switch f.Status {
	case "":
		filter["status"] = statuspolicy.JobOpen
	case "all":
	default:
		filter["status"] = f.Status
	}
	if f.Keyword != "" {
		kw := primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(f.Keyword))}
		filter["$or"] = bson.A{
			bson.M{"title_ci": kw},
			bson.M{"company_ci": kw},
		}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if !f.OwnerID.IsZero() {
		filter["owner_account_id"] = f.OwnerID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var jobs []models.JobPosting
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByOwner returns all postings owned by the recruiter, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.JobPosting, error) {
	return s.Search(ctx, SearchFilter{Status: "all", OwnerID: owner}, 0)
}

// ContentUpdate carries the mutable posting fields. Ownership and status
// are not reachable from here; status moves through SetStatus only.
type ContentUpdate struct {
	Title          *string
	Company        *string
	Description    *string
	Location       *string
	RequiredSkills *[]string
	SalaryMin      *int
	SalaryMax      *int
}

// UpdateContent applies a partial content update and returns the updated
// posting.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, up ContentUpdate) (models.JobPosting, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if up.Title != nil && *up.Title != "" {
		set["title"] = *up.Title
		set["title_ci"] = text.Fold(*up.Title)
	}
	if up.Company != nil && *up.Company != "" {
		set["company"] = *up.Company
		set["company_ci"] = text.Fold(*up.Company)
	}
	if up.Description != nil {
		set["description"] = *up.Description
	}
	if up.Location != nil {
		set["location"] = *up.Location
	}
	if up.RequiredSkills != nil {
		set["required_skills"] = *up.RequiredSkills
	}
	if up.SalaryMin != nil {
		set["salary_min"] = *up.SalaryMin
	}
	if up.SalaryMax != nil {
		set["salary_max"] = *up.SalaryMax
	}

	var j models.JobPosting
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&j)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.JobPosting{}, ErrNotFound
		}
		return models.JobPosting{}, err
	}
	return j, nil
}

// SetStatus moves a posting's status. The transition is validated here and
// the current status is part of the update filter, so a concurrent change
// cannot sneak an illegal move through.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to string) (models.JobPosting, error) {
	if err := statuspolicy.CheckJobTransition(from, to); err != nil {
		return models.JobPosting{}, err
	}
	var j models.JobPosting
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		opts).Decode(&j)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the posting is gone or its status moved underneath us.
			cur, getErr := s.GetByID(ctx, id)
			if getErr != nil {
				return models.JobPosting{}, getErr
			}
			if checkErr := statuspolicy.CheckJobTransition(cur.Status, to); checkErr != nil {
				return models.JobPosting{}, checkErr
			}
			return models.JobPosting{}, ErrNotFound
		}
		return models.JobPosting{}, err
	}
	return j, nil
}

// Delete removes a posting by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of postings matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
