package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DocStore is the cloud side of the mirror: one document per name.
type DocStore interface {
	Put(ctx context.Context, doc string, data []byte) error
	Get(ctx context.Context, doc string) ([]byte, bool, error)
}

// FirestoreStore keeps each mirrored blob in <collection>/<doc> as a JSON string field.
type FirestoreStore struct {
	Client     *firestore.Client
	Collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = "settings"
	}
	return &FirestoreStore{Client: client, Collection: collection}
}

type blobDoc struct {
	Data      string    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updatedAt"`
	Version   int       `firestore:"version"`
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.Client.Collection(s.Collection)
}

// Put overwrites the whole document.
func (s *FirestoreStore) Put(ctx context.Context, doc string, data []byte) error {
	if s == nil || s.Client == nil {
		return errors.New("firestore mirror: client is nil")
	}
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return errors.New("firestore mirror: doc is empty")
	}
	_, err := s.col().Doc(doc).Set(ctx, blobDoc{
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
		Version:   1,
	})
	return err
}

// Get returns (nil, false, nil) when the document does not exist.
func (s *FirestoreStore) Get(ctx context.Context, doc string) ([]byte, bool, error) {
	if s == nil || s.Client == nil {
		return nil, false, errors.New("firestore mirror: client is nil")
	}
	snap, err := s.col().Doc(strings.TrimSpace(doc)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	raw, ok := snap.Data()["data"]
	if !ok {
		return nil, false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil, false, fmt.Errorf("firestore mirror: %s.data is %T, want string", doc, raw)
	}
	return []byte(str), true, nil
}

// NewFirestoreClient opens a client for project using ambient credentials.
func NewFirestoreClient(ctx context.Context, project string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, project)
}
