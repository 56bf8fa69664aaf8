package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slotDocument is one entry of the generic keyed string store backing draft
// persistence and continuation tokens.
type slotDocument struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Set upserts a slot value. Last write wins.
func (m *MongoDB) Set(ctx context.Context, key, value string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(slotsCollection)

	filter := bson.D{{Key: "key", Value: key}}
	update := bson.D{{Key: "$set", Value: slotDocument{Key: key, Value: value, UpdatedAt: time.Now()}}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Get reads a slot value; found=false when the key has never been written.
func (m *MongoDB) Get(ctx context.Context, key string) (string, bool, error) {
	connection, err := m.connect()
	if err != nil {
		return "", false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(slotsCollection)

	var doc slotDocument
	err = collection.FindOne(ctx, bson.D{{Key: "key", Value: key}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, m.findError(err)
	}
	return doc.Value, true, nil
}

// Delete removes a slot entry.
func (m *MongoDB) Delete(ctx context.Context, key string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(slotsCollection)

	_, err = collection.DeleteOne(ctx, bson.D{{Key: "key", Value: key}})
	return err
}
