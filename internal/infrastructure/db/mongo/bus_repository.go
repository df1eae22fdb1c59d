package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

const busesCollection = "buses"

// BusRepository implements ports.BusRepository on MongoDB.
type BusRepository struct {
	coll *mongo.Collection
}

func NewBusRepository(db *mongo.Database) *BusRepository {
	return &BusRepository{coll: db.Collection(busesCollection)}
}

// busDocument is the storage representation. Position is a pointer so an
// absent position stays absent in the document, distinct from (0,0).
type busDocument struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	LicensePlate string              `bson:"license_plate"`
	Name         string              `bson:"name"`
	Status       string              `bson:"status"`
	Route        string              `bson:"route,omitempty"`
	Driver       string              `bson:"driver,omitempty"`
	MovingTime   int64               `bson:"moving_time"`
	ParkedTime   int64               `bson:"parked_time"`
	IsFavorite   bool                `bson:"is_favorite"`
	Position     *domain.Coordinates `bson:"position,omitempty"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func fromBus(b *domain.Bus) busDocument {
	return busDocument{
		LicensePlate: b.LicensePlate,
		Name:         b.Name,
		Status:       string(b.Status),
		Route:        b.Route,
		Driver:       b.Driver,
		MovingTime:   b.MovingTime,
		ParkedTime:   b.ParkedTime,
		IsFavorite:   b.IsFavorite,
		Position:     b.Position,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (d *busDocument) toDomain() *domain.Bus {
	return &domain.Bus{
		ID:           d.ID.Hex(),
		LicensePlate: d.LicensePlate,
		Name:         d.Name,
		Status:       domain.BusStatus(d.Status),
		Route:        d.Route,
		Driver:       d.Driver,
		MovingTime:   d.MovingTime,
		ParkedTime:   d.ParkedTime,
		IsFavorite:   d.IsFavorite,
		Position:     d.Position,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// listFilter translates the port filter into a Mongo query document.
func listFilter(f ports.ListBusesFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Route != "" {
		filter["route"] = f.Route
	}
	if f.Favorite != nil {
		filter["is_favorite"] = *f.Favorite
	}
	return filter
}

func (r *BusRepository) FindByID(ctx context.Context, id string) (*domain.Bus, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBusNotFound
	}

	var doc busDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBusNotFound
		}
		return nil, domain.NewStorageError("find bus by id", err)
	}
	return doc.toDomain(), nil
}

func (r *BusRepository) FindByPlate(ctx context.Context, plate string) (*domain.Bus, error) {
	var doc busDocument
	filter := bson.M{"license_plate": domain.NormalizePlate(plate)}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBusNotFound
		}
		return nil, domain.NewStorageError("find bus by plate", err)
	}
	return doc.toDomain(), nil
}

// Create checks plate uniqueness, then inserts. As with users, the
// read-then-write check is advisory and the unique plate index is the
// backstop against concurrent creators.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Bus) (*domain.Bus, error) {
	_, err := r.FindByPlate(ctx, bus.LicensePlate)
	if err == nil {
		return nil, domain.ErrPlateTaken
	}
	if !errors.Is(err, domain.ErrBusNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	doc := fromBus(bus)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPlateTaken
		}
		return nil, domain.NewStorageError("insert bus", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// Update persists the mutable fields of an existing bus and refreshes
// UpdatedAt. The position field is replaced wholesale: set when present,
// unset when the model cleared it.
func (r *BusRepository) Update(ctx context.Context, bus *domain.Bus) (*domain.Bus, error) {
	oid, err := primitive.ObjectIDFromHex(bus.ID)
	if err != nil {
		return nil, domain.ErrBusNotFound
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":        bus.Name,
		"status":      string(bus.Status),
		"route":       bus.Route,
		"driver":      bus.Driver,
		"moving_time": bus.MovingTime,
		"parked_time": bus.ParkedTime,
		"is_favorite": bus.IsFavorite,
		"updated_at":  now,
	}
	update := bson.M{"$set": set}
	if bus.Position != nil {
		set["position"] = bus.Position
	} else {
		update["$unset"] = bson.M{"position": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, domain.NewStorageError("update bus", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBusNotFound
	}

	updated := *bus
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *BusRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBusNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewStorageError("delete bus", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBusNotFound
	}
	return nil
}

// List runs the offset scan: one count pass over the filtered set, then
// skip/limit. O(n) per page; ListAfter is the cursor alternative.
func (r *BusRepository) List(ctx context.Context, filter ports.ListBusesFilter, page, limit int) ([]*domain.Bus, int64, error) {
	query := listFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, domain.NewStorageError("count buses", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, domain.NewStorageError("list buses", err)
	}
	defer cur.Close(ctx)

	buses, err := decodeBuses(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return buses, total, nil
}

// ListAfter runs the cursor scan: no count pass, ids strictly greater than
// the cursor, one extra document fetched to decide has-more.
func (r *BusRepository) ListAfter(ctx context.Context, cursor string, limit int, filter ports.ListBusesFilter) ([]*domain.Bus, string, bool, error) {
	query := listFilter(filter)
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, "", false, domain.NewValidationError("cursor", "is not a valid cursor")
		}
		query["_id"] = bson.M{"$gt": oid}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit) + 1)

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, "", false, domain.NewStorageError("list buses after cursor", err)
	}
	defer cur.Close(ctx)

	buses, err := decodeBuses(ctx, cur)
	if err != nil {
		return nil, "", false, err
	}

	hasMore := len(buses) > limit
	if hasMore {
		buses = buses[:limit]
	}

	next := ""
	if hasMore && len(buses) > 0 {
		next = buses[len(buses)-1].ID
	}
	return buses, next, hasMore, nil
}

func decodeBuses(ctx context.Context, cur *mongo.Cursor) ([]*domain.Bus, error) {
	var buses []*domain.Bus
	for cur.Next(ctx) {
		var doc busDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.NewStorageError("decode bus", err)
		}
		buses = append(buses, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.NewStorageError("iterate buses", err)
	}
	return buses, nil
}

// EnsureIndexes creates the unique plate index plus the filter indexes.
func (r *BusRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "license_plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "route", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
