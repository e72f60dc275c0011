package ports

import "context"

// StoragePort is the blob store collaborator. Put failures abort the
// surrounding operation; Delete is best-effort and callers only log its
// errors.
type StoragePort interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
