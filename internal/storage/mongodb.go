// mongodb.go - Document store for per-user per-day analysis records

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutrilens/nutrilens-api/configs"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

const analysesCollection = "daily_analyses"

// InitMongoDB initializes MongoDB connection
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(configs.MONGO_URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(configs.MONGO_DB_NAME)

	log.Println("Connected to MongoDB")
	return nil
}

// GetMongoDB returns the MongoDB database instance
func GetMongoDB() *mongo.Database {
	return mongoDB
}

// CloseMongoDB closes MongoDB connection
func CloseMongoDB() {
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
		log.Println("MongoDB connection closed")
	}
}

// DayKey returns the YYYY-MM-DD key for a point in time (UTC).
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SaveDailyAnalysis upserts one analysis section into the user's day
// document. Merge semantics are last-writer-wins per section; concurrent
// requests for the same user/day can race and that is accepted for wellness
// data. kind is "meal", "face" or "body"; source is "vision_ai" or
// "placeholder".
func SaveDailyAnalysis(uid, dayKey, kind, source string, request, result interface{}) error {
	if mongoDB == nil {
		return fmt.Errorf("mongodb not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"uid": uid, "day": dayKey}
	update := bson.M{
		"$set": bson.M{
			"uid": uid,
			"day": dayKey,
			kind: bson.M{
				"request":    request,
				"result":     result,
				"source":     source,
				"updated_at": time.Now().UTC(),
			},
		},
	}

	_, err := mongoDB.Collection(analysesCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily analysis: %w", err)
	}
	return nil
}

// GetDailyDocument loads the full day document for a user, or nil when the
// user has no record for that day.
func GetDailyDocument(uid, dayKey string) (bson.M, error) {
	if mongoDB == nil {
		return nil, fmt.Errorf("mongodb not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc bson.M
	err := mongoDB.Collection(analysesCollection).
		FindOne(ctx, bson.M{"uid": uid, "day": dayKey}).
		Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query daily analysis: %w", err)
	}

	return doc, nil
}

// GetTodayHealthRecord returns the health-context section of today's
// document (the meal analysis merged with any face/body results), used to
// feed context into later prompts. Missing documents yield an empty map.
func GetTodayHealthRecord(uid, dayKey string) (map[string]interface{}, error) {
	doc, err := GetDailyDocument(uid, dayKey)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return map[string]interface{}{}, nil
	}

	record := map[string]interface{}{}
	for _, section := range []string{"meal", "face", "body"} {
		if v, ok := doc[section]; ok {
			record[section] = v
		}
	}
	return record, nil
}
