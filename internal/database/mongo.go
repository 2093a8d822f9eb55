package repository

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	licensesCollection       = "School Licenses"
	trialsCollection         = "Free Trials"
	accessCodesCollection    = "Access Codes"
	failedPaymentsCollection = "Failed Payments"
	emailLogsCollection      = "Email Logs"
	userProfilesCollection   = "User Profiles"
	usersCollection          = "Users"
	apiKeysCollection        = "api-keys"
)

// MongoDB holds one client for the lifetime of the process; every
// repository call borrows a connection from its pool.
type MongoDB struct {
	client       *mongo.Client
	database     string
	transactions bool
	log          *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	timeout := time.Duration(conf.Mongo.Timeout) * time.Second
	clientOptions := options.Client().
		ApplyURI(conf.Mongo.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(timeout).
		SetTimeout(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}

	return NewMongoDB(client, conf.Mongo.Database, conf.Mongo.Transactions, logger), nil
}

// NewMongoDB wraps an already connected client.
func NewMongoDB(client *mongo.Client, database string, transactions bool, logger *slog.Logger) *MongoDB {
	return &MongoDB{
		client:       client,
		database:     database,
		transactions: transactions,
		log:          logger.With(sl.Module("mongodb")),
	}
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// insertError turns a unique index violation into a conflict.
func (m *MongoDB) insertError(what string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return entity.Conflict("duplicate %s", what)
	}
	return fmt.Errorf("mongodb insert %s: %w", what, err)
}

// EnsureIndexes creates the indexes the workflows rely on. The partial
// unique indexes allow a single active license and a single active trial
// per admin email.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	activeByEmail := func(name string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{"admin_email", 1}},
			Options: options.Index().
				SetName(name).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{"is_active", true}}),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		licensesCollection: {
			activeByEmail("active_admin_email"),
			{Keys: bson.D{{"school_name", 1}, {"is_active", 1}}},
			{Keys: bson.D{{"stripe_session_id", 1}}, Options: options.Index().SetSparse(true)},
		},
		trialsCollection: {
			activeByEmail("active_admin_email"),
		},
		accessCodesCollection: {
			{Keys: bson.D{{"code", 1}}, Options: options.Index().SetName("unique_code").SetUnique(true)},
			{Keys: bson.D{{"school", 1}, {"type", 1}, {"used", 1}}},
		},
		emailLogsCollection: {
			{Keys: bson.D{{"admin_email", 1}, {"sent_at", -1}}},
		},
		apiKeysCollection: {
			{Keys: bson.D{{"key", 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range indexes {
		if _, err := m.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a multi-document transaction when the
// deployment supports it (replica set, enabled in config); otherwise fn runs
// directly and its writes are not atomic.
func (m *MongoDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongodb start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (m *MongoDB) CheckApiKey(ctx context.Context, key string) (string, error) {
	filter := bson.D{{"key", key}}

	var result struct {
		Username string `bson:"username"`
		Key      string `bson:"key"`
	}
	err := m.collection(apiKeysCollection).FindOne(ctx, filter).Decode(&result)
	if err != nil {
		return "", m.findError(err)
	}

	return result.Username, nil
}

func (m *MongoDB) getKeyByUsername(ctx context.Context, username string) (string, error) {
	filter := bson.D{{"username", username}}

	var result struct {
		Key string `bson:"key"`
	}
	err := m.collection(apiKeysCollection).FindOne(ctx, filter).Decode(&result)
	if err != nil {
		return "", m.findError(err)
	}

	return result.Key, nil
}

// GenerateApiKey returns the existing key of username or issues a new one.
func (m *MongoDB) GenerateApiKey(ctx context.Context, username string) (string, error) {
	k, err := m.getKeyByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to get existing API key: %w", err)
	}
	if k != "" {
		return k, nil
	}

	key := uuid.NewString()
	doc := bson.D{
		{"username", username},
		{"key", key},
	}

	_, err = m.collection(apiKeysCollection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}

	return key, nil
}
