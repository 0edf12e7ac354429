package featurestore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig describes the MongoDB backend.
type MongoConfig struct {
	URL            string        `env:"FEATURE_STORE_MONGO_URL"`
	Database       string        `env:"FEATURE_STORE_MONGO_DATABASE" envDefault:"togglekit"`
	Collection     string        `env:"FEATURE_STORE_MONGO_COLLECTION" envDefault:"feature_states"`
	ConnectTimeout time.Duration `env:"FEATURE_STORE_MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	RetryAttempts  int           `env:"FEATURE_STORE_MONGO_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"FEATURE_STORE_MONGO_RETRY_INTERVAL" envDefault:"2s"`
}

// ConnectMongo connects and pings, retrying up to RetryAttempts times.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingConnectionURL
	}

	var lastErr error
	for range max(cfg.RetryAttempts, 1) {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.URL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetRetryWrites(true),
		)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.WithoutCancel(ctx))
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrStoreNotReady, lastErr)
}

type mongoState struct {
	Name      string    `bson:"_id"`
	Enabled   bool      `bson:"enabled"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per feature, keyed by name.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client
	now    func() time.Time
}

// NewMongoStore wraps a collection. If client is not nil, Close disconnects it.
func NewMongoStore(coll *mongo.Collection, client *mongo.Client) *MongoStore {
	return &MongoStore{coll: coll, client: client, now: time.Now}
}

func (s *MongoStore) Load(ctx context.Context) ([]State, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	var docs []mongoState
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	states := make([]State, 0, len(docs))
	for _, d := range docs {
		states = append(states, State{Name: d.Name, Enabled: d.Enabled})
	}
	return states, nil
}

// Save upserts every state and removes documents for features not in states.
func (s *MongoStore) Save(ctx context.Context, states []State) error {
	now := s.now()
	names := make([]string, 0, len(states))
	models := make([]mongo.WriteModel, 0, len(states)+1)
	for _, st := range states {
		names = append(names, st.Name)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: st.Name}}).
			SetReplacement(mongoState{Name: st.Name, Enabled: st.Enabled, UpdatedAt: now}).
			SetUpsert(true))
	}
	models = append(models, mongo.NewDeleteManyModel().
		SetFilter(bson.D{{Key: "_id", Value: bson.D{{Key: "$nin", Value: names}}}}))

	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// Healthcheck pings the deployment.
func (s *MongoStore) Healthcheck(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
