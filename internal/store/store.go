package store

import (
	"context"
	"errors"
	"fmt"
)

// BlobStore persists opaque values under fixed keys. Load reports ok=false
// when nothing is stored under key; Save replaces the whole value.
type BlobStore interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Supported backend drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// ErrEmptyKey is returned for blank keys.
var ErrEmptyKey = errors.New("key is required")

// Options selects and configures a backend.
type Options struct {
	Driver          string
	Path            string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (BlobStore, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return NewSQLite(opts.Path)
	case DriverFile:
		return NewFile(opts.Path)
	case DriverMemory:
		return NewMemory(), nil
	case DriverMongo:
		return NewMongo(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
