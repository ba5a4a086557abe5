package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

const slugTakenMessage = "Title already exists. Choose a different title."

type mediaDocument struct {
	Images []string `bson:"images"`
	Videos []string `bson:"videos"`
	Links  []string `bson:"links"`
}

type outcomesDocument struct {
	Metrics      string `bson:"metrics"`
	Testimonials string `bson:"testimonials"`
}

type portfolioDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Title     string             `bson:"title"`
	Slug      string             `bson:"slug"`
	Overview  string             `bson:"overview"`
	Media     mediaDocument      `bson:"media"`
	Timeline  string             `bson:"timeline"`
	Tools     []string           `bson:"tools"`
	Outcomes  outcomesDocument   `bson:"outcomes"`
	Theme     string             `bson:"theme"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d portfolioDocument) toDomain() *domain.Portfolio {
	return &domain.Portfolio{
		ID:       d.ID.Hex(),
		UserID:   hexOrEmpty(d.UserID),
		Title:    d.Title,
		Slug:     d.Slug,
		Overview: d.Overview,
		Media: domain.Media{
			Images: d.Media.Images,
			Videos: d.Media.Videos,
			Links:  d.Media.Links,
		},
		Timeline: d.Timeline,
		Tools:    d.Tools,
		Outcomes: domain.Outcomes{
			Metrics:      d.Outcomes.Metrics,
			Testimonials: d.Outcomes.Testimonials,
		},
		Theme:     domain.Theme(d.Theme),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type summaryDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Title    string             `bson:"title"`
	Overview string             `bson:"overview"`
	Tools    []string           `bson:"tools"`
	Slug     string             `bson:"slug"`
	Owner    *struct {
		ID       primitive.ObjectID `bson:"_id"`
		UserName string             `bson:"userName"`
	} `bson:"owner,omitempty"`
}

type PortfolioRepository struct {
	col *mongo.Collection
}

func NewPortfolioRepository(db *mongo.Database) repository.PortfolioRepository {
	return &PortfolioRepository{col: db.Collection(portfoliosCollection)}
}

func (r *PortfolioRepository) Init(ctx context.Context) error {
	if err := ensureUniqueIndex(ctx, r.col, "slug"); err != nil {
		return err
	}
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create portfolios owner index: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) Create(ctx context.Context, p *domain.Portfolio) (string, error) {
	owner, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return "", fmt.Errorf("portfolio owner id %q: %w", p.UserID, err)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	doc := portfolioDocument{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Title:     p.Title,
		Slug:      p.Slug,
		Overview:  p.Overview,
		Media:     mediaDocument{Images: p.Media.Images, Videos: p.Media.Videos, Links: p.Media.Links},
		Timeline:  p.Timeline,
		Tools:     p.Tools,
		Outcomes:  outcomesDocument{Metrics: p.Outcomes.Metrics, Testimonials: p.Outcomes.Testimonials},
		Theme:     string(p.Theme),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.Wrap(domain.KindConflict, slugTakenMessage, err)
		}
		return "", fmt.Errorf("insert portfolio: %w", err)
	}
	p.ID = doc.ID.Hex()
	return p.ID, nil
}

func patchToSet(patch domain.PortfolioPatch) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Overview != nil {
		set["overview"] = *patch.Overview
	}
	if patch.Media != nil {
		set["media"] = mediaDocument{Images: patch.Media.Images, Videos: patch.Media.Videos, Links: patch.Media.Links}
	}
	if patch.Timeline != nil {
		set["timeline"] = *patch.Timeline
	}
	if patch.Tools != nil {
		set["tools"] = *patch.Tools
	}
	if patch.Outcomes != nil {
		set["outcomes"] = outcomesDocument{Metrics: patch.Outcomes.Metrics, Testimonials: patch.Outcomes.Testimonials}
	}
	if patch.Theme != nil {
		set["theme"] = string(*patch.Theme)
	}
	return set
}

func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := objectID(id, "Portfolio not found")
	if err != nil {
		return nil, err
	}
	owner, err := objectID(ownerID, "Portfolio not found")
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "userId": owner}, nil
}

func (r *PortfolioRepository) Update(ctx context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc portfolioDocument
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": patchToSet(patch)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.E(domain.KindNotFound, "Portfolio not found")
		}
		return nil, fmt.Errorf("update portfolio: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PortfolioRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.E(domain.KindNotFound, "Portfolio not found")
	}
	return nil
}

func (r *PortfolioRepository) Get(ctx context.Context, id string) (*domain.Portfolio, error) {
	oid, err := objectID(id, "Portfolio not found")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PortfolioRepository) GetBySlug(ctx context.Context, slug string) (*domain.Portfolio, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *PortfolioRepository) GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*domain.Portfolio, error) {
	owner, err := objectID(ownerID, "Portfolio not found")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"userId": owner, "slug": slug})
}

func (r *PortfolioRepository) findOne(ctx context.Context, filter bson.M) (*domain.Portfolio, error) {
	var doc portfolioDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.E(domain.KindNotFound, "Portfolio not found")
		}
		return nil, fmt.Errorf("find portfolio: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PortfolioRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Portfolio, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []domain.Portfolio{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("query portfolios: %w", err)
	}
	defer cur.Close(ctx)

	portfolios := []domain.Portfolio{}
	for cur.Next(ctx) {
		var doc portfolioDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode portfolio: %w", err)
		}
		portfolios = append(portfolios, *doc.toDomain())
	}
	return portfolios, cur.Err()
}

func (r *PortfolioRepository) ListSummaries(ctx context.Context) ([]domain.PortfolioSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$owner", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"title":          1,
			"overview":       1,
			"tools":          1,
			"slug":           1,
			"owner._id":      1,
			"owner.userName": 1,
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate portfolio summaries: %w", err)
	}
	defer cur.Close(ctx)

	summaries := []domain.PortfolioSummary{}
	for cur.Next(ctx) {
		var doc summaryDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode portfolio summary: %w", err)
		}
		s := domain.PortfolioSummary{
			ID:       doc.ID.Hex(),
			Title:    doc.Title,
			Overview: doc.Overview,
			Tools:    doc.Tools,
			Slug:     doc.Slug,
		}
		if doc.Owner != nil {
			s.Owner = domain.Owner{ID: hexOrEmpty(doc.Owner.ID), UserName: doc.Owner.UserName}
		}
		summaries = append(summaries, s)
	}
	return summaries, cur.Err()
}
