// Package mongo reads person lists from a MongoDB collection.
//
// Documents are decoded into [family.Person] using its bson tags. When a
// document has no "id" field its "_id" is used instead: strings are taken
// as is, object IDs as their hex form and integers in decimal. The source
// only reads; layouts are never written back.
//
// Documents are returned in ascending "_id" order so that repeated loads of
// an unchanged collection produce the same layout.
package mongo

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// collection is the part of *mongo.Collection the source uses.
type collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Source reads persons from one collection.
type Source struct {
	client *mongo.Client
	coll   collection
	name   string
	filter bson.M
	logger *log.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithFilter restricts the documents read, for example to one family tree.
func WithFilter(filter bson.M) Option {
	return func(s *Source) { s.filter = filter }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database, coll string, opts ...Option) (*Source, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSource, err, "ping mongodb")
	}
	s := newSource(client.Database(database).Collection(coll), database+"."+coll, opts...)
	s.client = client
	return s, nil
}

func newSource(c collection, name string, opts ...Option) *Source {
	s := &Source{
		coll:   c,
		name:   name,
		filter: bson.M{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "database.collection".
func (s *Source) Name() string { return s.name }

// record is a stored person plus the document key.
type record struct {
	Key           bson.RawValue `bson:"_id"`
	family.Person `bson:",inline"`
}

// Load reads every matching document.
func (s *Source) Load(ctx context.Context) ([]family.Person, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, s.filter, findOpts)
	if err != nil {
		return nil, s.wrap(ctx, err, "find persons")
	}
	defer cur.Close(context.Background())

	var persons []family.Person
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode person #%d", len(persons))
		}
		p := rec.Person
		if p.ID == "" {
			p.ID = keyString(rec.Key)
		}
		if err := errors.ValidatePersonID(p.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "person #%d", len(persons))
		}
		persons = append(persons, p)
	}
	if err := cur.Err(); err != nil {
		return nil, s.wrap(ctx, err, "iterate persons")
	}

	s.logger.Debug("loaded persons", "source", s.name, "persons", len(persons))
	return persons, nil
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "disconnect mongodb")
	}
	return nil
}

func (s *Source) wrap(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil {
		return errors.FromContext(ctx.Err())
	}
	return errors.Wrap(errors.ErrCodeSource, err, "%s in %s", msg, s.name)
}

func keyString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bson.TypeInt64:
		return strconv.FormatInt(v.Int64(), 10)
	}
	return ""
}
