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

var counterFields = []domain.MetricField{
	domain.MetricViews,
	domain.MetricLikes,
	domain.MetricComments,
	domain.MetricClickThroughs,
	domain.MetricEngagementTime,
}

type metricsDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PortfolioID    primitive.ObjectID `bson:"portfolioId"`
	UserID         primitive.ObjectID `bson:"userId,omitempty"`
	Views          int64              `bson:"views"`
	Likes          int64              `bson:"likes"`
	Comments       int64              `bson:"comments"`
	ClickThroughs  int64              `bson:"clickThroughs"`
	EngagementTime int64              `bson:"engagementTime"`
	LastUpdated    time.Time          `bson:"lastUpdated"`
}

func (d metricsDocument) toDomain() *domain.Metrics {
	return &domain.Metrics{
		ID:             d.ID.Hex(),
		PortfolioID:    d.PortfolioID.Hex(),
		UserID:         hexOrEmpty(d.UserID),
		Views:          d.Views,
		Likes:          d.Likes,
		Comments:       d.Comments,
		ClickThroughs:  d.ClickThroughs,
		EngagementTime: d.EngagementTime,
		LastUpdated:    d.LastUpdated,
	}
}

type MetricsRepository struct {
	col *mongo.Collection
}

func NewMetricsRepository(db *mongo.Database) repository.MetricsRepository {
	return &MetricsRepository{col: db.Collection(metricsCollection)}
}

// Init makes portfolioId unique so concurrent first increments converge on one
// document; the server retries the losing upsert as an update.
func (r *MetricsRepository) Init(ctx context.Context) error {
	return ensureUniqueIndex(ctx, r.col, "portfolioId")
}

func (r *MetricsRepository) Increment(ctx context.Context, portfolioID, ownerID string, field domain.MetricField, amount int64) (*domain.Metrics, error) {
	if !field.Valid() {
		return nil, domain.E(domain.KindValidation, fmt.Sprintf("unknown metric %q", field))
	}
	pid, err := primitive.ObjectIDFromHex(portfolioID)
	if err != nil {
		return nil, domain.E(domain.KindValidation, "invalid portfolio id")
	}

	onInsert := bson.M{}
	for _, f := range counterFields {
		if f != field {
			onInsert[string(f)] = int64(0)
		}
	}
	if owner, err := primitive.ObjectIDFromHex(ownerID); err == nil {
		onInsert["userId"] = owner
	}

	update := bson.M{
		"$inc":         bson.M{string(field): amount},
		"$set":         bson.M{"lastUpdated": time.Now().UTC()},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc metricsDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"portfolioId": pid}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("increment %s: %w", field, err)
	}
	return doc.toDomain(), nil
}

func (r *MetricsRepository) GetByPortfolio(ctx context.Context, portfolioID string) (*domain.Metrics, error) {
	pid, err := objectID(portfolioID, "Metrics not found for this portfolio")
	if err != nil {
		return nil, err
	}

	var doc metricsDocument
	if err := r.col.FindOne(ctx, bson.M{"portfolioId": pid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.E(domain.KindNotFound, "Metrics not found for this portfolio")
		}
		return nil, fmt.Errorf("find metrics: %w", err)
	}
	return doc.toDomain(), nil
}
