package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/myflix/movie-api/internal/core/domain"
)

const moviesCollection = "movies"

type MovieRepository struct {
	coll *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{coll: db.Collection(moviesCollection)}
}

type mongoMovie struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Genre       domain.Genre       `bson:"genre"`
	Director    domain.Director    `bson:"director"`
	Actors      []string           `bson:"actors"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Featured    bool               `bson:"featured"`
}

func (mm *mongoMovie) toDomain() domain.Movie {
	actors := mm.Actors
	if actors == nil {
		actors = []string{}
	}
	return domain.Movie{
		ID:          mm.ID.Hex(),
		Title:       mm.Title,
		Description: mm.Description,
		Genre:       mm.Genre,
		Director:    mm.Director,
		Actors:      actors,
		ImageURL:    mm.ImageURL,
		Featured:    mm.Featured,
	}
}

// List returns every movie ordered by title.
func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, storeErr("list movies", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMovie
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode movies", err)
	}

	movies := make([]domain.Movie, 0, len(docs))
	for i := range docs {
		movies = append(movies, docs[i].toDomain())
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMovieNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return r.findOne(ctx, bson.M{"title": title})
}

func (r *MovieRepository) findOne(ctx context.Context, filter bson.M) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMovie
	if err := r.coll.FindOne(ctx, filter).Decode(&mm); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, storeErr("find movie", err)
	}
	m := mm.toDomain()
	return &m, nil
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Genre domain.Genre `bson:"genre"`
	}
	opts := options.FindOne().SetProjection(bson.M{"genre": 1})
	if err := r.coll.FindOne(ctx, bson.M{"genre.name": name}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, storeErr("find genre", err)
	}
	return &doc.Genre, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (*domain.Director, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Director domain.Director `bson:"director"`
	}
	opts := options.FindOne().SetProjection(bson.M{"director": 1})
	if err := r.coll.FindOne(ctx, bson.M{"director.name": name}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrDirectorNotFound
		}
		return nil, storeErr("find director", err)
	}
	return &doc.Director, nil
}

// InsertMany stores movies; IDs in the input are ignored.
func (r *MovieRepository) InsertMany(ctx context.Context, movies []domain.Movie) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(movies))
	for _, m := range movies {
		docs = append(docs, mongoMovie{
			Title:       m.Title,
			Description: m.Description,
			Genre:       m.Genre,
			Director:    m.Director,
			Actors:      m.Actors,
			ImageURL:    m.ImageURL,
			Featured:    m.Featured,
		})
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		n := 0
		if res != nil {
			n = len(res.InsertedIDs)
		}
		return n, storeErr("insert movies", err)
	}
	return len(res.InsertedIDs), nil
}

// EnsureIndexes creates lookup indexes for the catalog routes.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "genre.name", Value: 1}}},
		{Keys: bson.D{{Key: "director.name", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
