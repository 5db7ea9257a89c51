package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cocopets/boarding/internal/domain/models"
)

// ReportRepo persists nightly occupancy reports.
type ReportRepo struct {
	coll *mongo.Collection
}

// Save upserts the report for its date so a rerun of the nightly job does not
// produce duplicates.
func (r *ReportRepo) Save(ctx context.Context, report models.OccupancyReport) error {
	report.CreatedAt = time.Now().UTC()

	filter := bson.M{"date": report.Date}
	update := bson.M{"$set": report}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("save occupancy report: %w", err)
	}
	return nil
}

// ListRange returns reports in [start, end), ascending by date.
func (r *ReportRepo) ListRange(ctx context.Context, start, end time.Time) ([]models.OccupancyReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"date": bson.M{"$gte": start, "$lt": end}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list occupancy reports: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.OccupancyReport
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode occupancy reports: %w", err)
	}
	return out, nil
}
