package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// objectKey builds a randomized blob key: "{prefix}/{uuid}_{filename}".
func objectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s_%s", prefix, uuid.New().String(), filename)
}

// publicURL derives the deterministic public address of a stored object.
func publicURL(bucket, storageHost, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, storageHost, key)
}

// objectKeyFromURL recovers the blob key from a public URL produced by
// publicURL.
func objectKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
