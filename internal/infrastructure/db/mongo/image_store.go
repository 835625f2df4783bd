package mongo

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

const (
	imagesBucket       = "images"
	defaultContentType = "application/octet-stream"
)

// ImageStore serves movie images out of the GridFS "images" bucket.
type ImageStore struct {
	bucket *gridfs.Bucket
}

func NewImageStore(db *mongo.Database) (*ImageStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(imagesBucket))
	if err != nil {
		return nil, err
	}
	return &ImageStore{bucket: bucket}, nil
}

// gridFile is the subset of an images.files document we read. Files written by
// older tools keep contentType at the top level, newer ones in metadata.
type gridFile struct {
	Length      int64  `bson:"length"`
	ContentType string `bson:"contentType"`
	Metadata    struct {
		ContentType string `bson:"contentType"`
	} `bson:"metadata"`
}

// Open returns a stream for the image with the given hex id.
func (s *ImageStore) Open(ctx context.Context, id string) (*ports.Image, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrImageNotFound
	}

	cur, err := s.bucket.FindContext(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, storeErr("find image", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, storeErr("find image", err)
		}
		return nil, domain.ErrImageNotFound
	}
	var file gridFile
	if err := cur.Decode(&file); err != nil {
		return nil, storeErr("decode image", err)
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrImageNotFound
		}
		return nil, storeErr("open image", err)
	}

	contentType := file.Metadata.ContentType
	if contentType == "" {
		contentType = file.ContentType
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	return &ports.Image{ContentType: contentType, Length: file.Length, Body: stream}, nil
}

// Upload stores r under filename and returns the new file id.
func (s *ImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	oid, err := s.bucket.UploadFromStream(filename, r, opts)
	if err != nil {
		return "", storeErr("upload image", err)
	}
	return oid.Hex(), nil
}
