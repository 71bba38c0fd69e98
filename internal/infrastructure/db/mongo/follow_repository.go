package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpost/blog-api/internal/core/domain"
)

const followCollection = "follows"

// FollowRepository implements ports.FollowRepository. One document per edge;
// the compound unique index makes Create safe under concurrent follows.
type FollowRepository struct {
	coll *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{coll: db.Collection(followCollection)}
}

type followDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FollowerID  string             `bson:"follower_id"`
	FollowingID string             `bson:"following_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func edgeFilter(followerID, followingID string) bson.M {
	return bson.M{"follower_id": followerID, "following_id": followingID}
}

func (r *FollowRepository) Create(ctx context.Context, edge domain.FollowEdge) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, followDoc{
		FollowerID:  edge.FollowerID,
		FollowingID: edge.FollowingID,
		CreatedAt:   edge.CreatedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, storageErr("insert follow", err)
	}
	return true, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, edgeFilter(followerID, followingID))
	if err != nil {
		return false, storageErr("delete follow", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, edgeFilter(followerID, followingID), options.Count().SetLimit(1))
	if err != nil {
		return false, storageErr("check follow", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, accountID string) (int64, error) {
	return r.count(ctx, bson.M{"following_id": accountID})
}

func (r *FollowRepository) CountFollowing(ctx context.Context, accountID string) (int64, error) {
	return r.count(ctx, bson.M{"follower_id": accountID})
}

func (r *FollowRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, storageErr("count follows", err)
	}
	return n, nil
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, accountID string, skip, limit int64) ([]string, error) {
	return r.ids(ctx, bson.M{"following_id": accountID}, "follower_id", skip, limit)
}

func (r *FollowRepository) FollowingIDs(ctx context.Context, accountID string, skip, limit int64) ([]string, error) {
	return r.ids(ctx, bson.M{"follower_id": accountID}, "following_id", skip, limit)
}

func (r *FollowRepository) ids(ctx context.Context, filter bson.M, field string, skip, limit int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageErr("list follows", err)
	}
	var docs []followDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("decode follows", err)
	}

	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if field == "follower_id" {
			out = append(out, d.FollowerID)
		} else {
			out = append(out, d.FollowingID)
		}
	}
	return out, nil
}

func (r *FollowRepository) DeleteAll(ctx context.Context, accountID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"follower_id": accountID},
		bson.M{"following_id": accountID},
	}})
	if err != nil {
		return 0, storageErr("purge follows", err)
	}
	return res.DeletedCount, nil
}

func (r *FollowRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}},
			Options: options.Index().SetName("follows_pair_unique").SetUnique(true),
		},
		{Keys: bson.D{{Key: "following_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
