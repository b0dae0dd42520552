package persistence

import (
	"context"
	"fmt"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// LibraryRepositoryMongo stores favorites and history as MongoDB documents.
type LibraryRepositoryMongo struct {
	favorites *mongo.Collection
	history   *mongo.Collection
	now       func() time.Time
}

type historyDocument struct {
	ID       bson.ObjectID      `bson:"_id"`
	UserID   string             `bson:"userId"`
	Video    model.VideoSummary `bson:"video"`
	PlayedAt time.Time          `bson:"playedAt"`
}

var _ repository.ILibrary = (*LibraryRepositoryMongo)(nil)

func NewLibraryRepositoryMongo(db *mongo.Database) *LibraryRepositoryMongo {
	return &LibraryRepositoryMongo{
		favorites: db.Collection("favorites"),
		history:   db.Collection("history"),
		now:       time.Now,
	}
}

// EnsureIndexes creates the favorites uniqueness and history ordering indexes.
func (r *LibraryRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "video.videoId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create favorites index: %w", err)
	}
	_, err = r.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "playedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMongo) AddFavorite(ctx context.Context, userID string, video model.VideoSummary) error {
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "video.videoId", Value: video.ExternalID}}
	// userId and video.videoId are seeded from the filter on insert.
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "video.title", Value: video.Title},
		{Key: "video.channelTitle", Value: video.ChannelLabel},
		{Key: "video.thumbnail", Value: video.ThumbnailURL},
		{Key: "video.genre", Value: video.CategoryLabel},
		{Key: "addedAt", Value: r.now().UTC()},
	}}}
	if _, err := r.favorites.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMongo) RemoveFavorite(ctx context.Context, userID, videoID string) error {
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "video.videoId", Value: videoID}}
	if _, err := r.favorites.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMongo) IsFavorite(ctx context.Context, userID, videoID string) (bool, error) {
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "video.videoId", Value: videoID}}
	n, err := r.favorites.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

func (r *LibraryRepositoryMongo) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.favorites.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error closing cursor")
		}
	}()

	list := []model.FavoriteRecord{}
	for cursor.Next(ctx) {
		var rec model.FavoriteRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode favorite: %w", err)
		}
		list = append(list, rec)
	}
	return list, cursor.Err()
}

func (r *LibraryRepositoryMongo) AddHistory(ctx context.Context, userID string, video model.VideoSummary) error {
	doc := historyDocument{
		ID:       bson.NewObjectID(),
		UserID:   userID,
		Video:    video,
		PlayedAt: r.now().UTC(),
	}
	if _, err := r.history.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMongo) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "playedAt", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.history.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error closing cursor")
		}
	}()

	list := []model.HistoryRecord{}
	for cursor.Next(ctx) {
		var doc historyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		list = append(list, model.HistoryRecord{
			ID:       doc.ID.Hex(),
			UserID:   doc.UserID,
			Video:    doc.Video,
			PlayedAt: doc.PlayedAt,
		})
	}
	return list, cursor.Err()
}

func (r *LibraryRepositoryMongo) ClearHistory(ctx context.Context, userID string) error {
	if _, err := r.history.DeleteMany(ctx, bson.D{{Key: "userId", Value: userID}}); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
