package repository

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"servihogar/entity"
)

// UploadFile stores a photo binary in GridFS under its namespaced path.
func (m *MongoDB) UploadFile(_ context.Context, path string, reader io.Reader, meta entity.FileMetadata) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	bucket, err := gridfs.NewBucket(connection.Database(m.database))
	if err != nil {
		return fmt.Errorf("gridfs bucket: %w", err)
	}

	uploadOpts := options.GridFSUpload().SetMetadata(meta)
	uploadStream, err := bucket.OpenUploadStream(path, uploadOpts)
	if err != nil {
		return fmt.Errorf("gridfs open upload: %w", err)
	}

	if _, err := io.Copy(uploadStream, reader); err != nil {
		uploadStream.Close()
		return fmt.Errorf("gridfs copy: %w", err)
	}

	if err := uploadStream.Close(); err != nil {
		return fmt.Errorf("gridfs close upload: %w", err)
	}
	return nil
}

// gridfsReadCloser wraps a GridFS download stream and disconnects
// the MongoDB client when closed.
type gridfsReadCloser struct {
	stream     *gridfs.DownloadStream
	disconnect func()
}

func (r *gridfsReadCloser) Read(p []byte) (int, error) {
	return r.stream.Read(p)
}

func (r *gridfsReadCloser) Close() error {
	err := r.stream.Close()
	r.disconnect()
	return err
}

// DownloadFileByPath retrieves a photo by its namespaced path.
// The caller must close the returned ReadCloser to release the MongoDB connection.
func (m *MongoDB) DownloadFileByPath(path string) (entity.FileMetadata, io.ReadCloser, error) {
	connection, err := m.connect()
	if err != nil {
		return entity.FileMetadata{}, nil, err
	}

	bucket, err := gridfs.NewBucket(connection.Database(m.database))
	if err != nil {
		m.disconnect(connection)
		return entity.FileMetadata{}, nil, fmt.Errorf("gridfs bucket: %w", err)
	}

	stream, err := bucket.OpenDownloadStreamByName(path)
	if err != nil {
		m.disconnect(connection)
		return entity.FileMetadata{}, nil, fmt.Errorf("gridfs open download: %w", err)
	}

	var meta entity.FileMetadata
	if raw := stream.GetFile().Metadata; len(raw) > 0 {
		if err := bson.Unmarshal(raw, &meta); err != nil {
			m.log.Error("failed to unmarshal gridfs metadata", "error", err.Error())
		}
	}

	reader := &gridfsReadCloser{
		stream:     stream,
		disconnect: func() { m.disconnect(connection) },
	}
	return meta, reader, nil
}
