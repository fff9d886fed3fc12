package memory

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

type Object struct {
	Body        []byte
	ContentType string
}

// Storage keeps uploaded objects in memory. Public URLs are built from
// baseURL the same way the hosted bucket builds them.
type Storage struct {
	mu      sync.Mutex
	objects map[string]Object
	baseURL string
}

func NewStorage(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Storage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = Object{Body: data, ContentType: contentType}
	return nil
}

// Remove deletes the given keys. Missing keys are not an error.
func (s *Storage) Remove(ctx context.Context, bucket string, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, bucket+"/"+k)
	}
	return nil
}

func (s *Storage) PublicURL(bucket, key string) string {
	return s.baseURL + "/" + bucket + "/" + key
}

func (s *Storage) Object(bucket, key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[bucket+"/"+key]
	return o, ok
}

// Keys lists the object keys of a bucket in sorted order.
func (s *Storage) Keys(bucket string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := bucket + "/"
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(keys)
	return keys
}
