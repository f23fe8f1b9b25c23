package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doron007/realtechee-forms/pkg/model"
)

const submissionsCollection = "submissions"

// MongoStore persists submissions in a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

// Connect dials MongoDB and returns a store bound to the submissions
// collection, plus a disconnect func for shutdown.
func Connect(ctx context.Context, uri, database string) (*MongoStore, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("store: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("store: ping mongo: %w", err)
	}

	mongoStore := NewMongoStore(client.Database(database).Collection(submissionsCollection))
	if err := mongoStore.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return mongoStore, client.Disconnect, nil
}

// NewMongoStore wraps an existing collection handle.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection, now: time.Now}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submissionTime", Value: -1}}},
		{Keys: bson.D{{Key: "archived", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("store: ensure indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, submission model.Submission) (Record, error) {
	record := Record{
		ID:             uuid.NewString(),
		FormID:         submission.FormID,
		SubmissionTime: submission.SubmissionTime,
		Values:         submission.Values,
		Files:          submission.Files,
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return Record{}, fmt.Errorf("store: insert submission: %w", err)
	}
	return record, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var record Record
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: get submission %s: %w", id, err)
	}
	return record, nil
}

func (s *MongoStore) List(ctx context.Context, query Query) ([]Record, error) {
	filter := bson.M{}
	if query.FormID != "" {
		filter["formId"] = query.FormID
	}
	if !query.IncludeArchived {
		filter["archived"] = bson.M{"$ne": true}
	}

	sortField := query.SortBy
	if sortField == "" {
		sortField = "submissionTime"
	}
	order := 1
	if query.Desc {
		order = -1
	}

	// Free-text filtering matches decoded values, so paging moves
	// client-side when a filter is present.
	findOptions := options.Find().SetSort(bson.D{{Key: sortField, Value: order}})
	if query.Filter == "" {
		if query.Limit > 0 {
			findOptions.SetLimit(query.Limit)
		}
		if query.Offset > 0 {
			findOptions.SetSkip(query.Offset)
		}
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("store: list submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("store: decode submissions: %w", err)
	}

	if query.Filter != "" {
		matched := records[:0]
		for _, record := range records {
			if query.Matches(record) {
				matched = append(matched, record)
			}
		}
		records = matched
		if query.Offset > 0 {
			if query.Offset >= int64(len(records)) {
				return nil, nil
			}
			records = records[query.Offset:]
		}
		if query.Limit > 0 && int64(len(records)) > query.Limit {
			records = records[:query.Limit]
		}
	}
	return records, nil
}

func (s *MongoStore) SetArchived(ctx context.Context, id string, archived bool) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"archived": archived}})
	if err != nil {
		return fmt.Errorf("store: archive submission %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
