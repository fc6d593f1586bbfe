package repository

import (
	"context"
	"errors"
	"fmt"

	"rpsarena/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	matchesCollection = "matches"
	maxRecentMatches  = 100
)

// MatchRepo stores the history of resolved rounds
type MatchRepo interface {
	EnsureIndexes(ctx context.Context) error
	SaveMatch(ctx context.Context, match *model.Match) error
	Recent(ctx context.Context, limit int) ([]*model.Match, error)
	RecentByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Match, error)
}

type matchRepo struct {
	collection *mongo.Collection
}

func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection(matchesCollection),
	}
}

// EnsureIndexes creates the indexes the history queries rely on
func (r *matchRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "playedAt", Value: -1}}},
		{Keys: bson.D{{Key: "roomCode", Value: 1}, {Key: "playedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create match indexes: %w", err)
	}
	return nil
}

// SaveMatch inserts a copy of match under a fresh id
func (r *matchRepo) SaveMatch(ctx context.Context, match *model.Match) error {
	if match == nil {
		return errors.New("match cannot be nil")
	}
	doc := *match
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

// Recent returns the latest matches across all rooms, newest first
func (r *matchRepo) Recent(ctx context.Context, limit int) ([]*model.Match, error) {
	return r.find(ctx, bson.M{}, limit)
}

// RecentByRoom returns the latest matches played under one room code
func (r *matchRepo) RecentByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Match, error) {
	return r.find(ctx, bson.M{"roomCode": roomCode}, limit)
}

func (r *matchRepo) find(ctx context.Context, filter bson.M, limit int) ([]*model.Match, error) {
	if limit <= 0 || limit > maxRecentMatches {
		limit = maxRecentMatches
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "playedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer cursor.Close(ctx)

	matches := []*model.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return matches, nil
}
