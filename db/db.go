package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	OrdersCollection     *mongo.Collection
	ProductsCollection   *mongo.Collection
	CountersCollection   *mongo.Collection
	DispatchesCollection *mongo.Collection
	Client               *mongo.Client
)

// Connect establishes the MongoDB connection and binds collections.
// Call once from main before building services.
func Connect(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "dukaandb"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	Client = client

	database := client.Database(dbName)
	OrdersCollection = database.Collection("orders")
	ProductsCollection = database.Collection("products")
	CountersCollection = database.Collection("counters")
	DispatchesCollection = database.Collection("dispatches")
	return nil
}

// EnsureIndexes creates the indexes the order pipeline relies on: the
// unique orderId index is what turns an identity race into a visible
// duplicate-key error instead of silent data corruption.
func EnsureIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"orderId": 1},
			Options: options.Index().SetUnique(true).SetName("unique_order_id"),
		},
		{
			Keys:    bson.M{"status": 1, "createdAt": -1},
			Options: options.Index().SetName("status_created"),
		},
	}
	_, err := OrdersCollection.Indexes().CreateMany(ctx, idxs)
	return err
}
