package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// FileStore keeps every collection inside one JSON document on local
// disk. Each write is a load-mutate-save cycle over the whole document;
// all access is serialized through a single mutex so concurrent writers
// cannot lose each other's updates. Saves are atomic (temp file plus
// rename).
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string][]bson.M
}

var _ Store = (*FileStore)(nil)

func OpenFile(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll -> %w", err)
		}
	}

	s := &FileStore{
		path: path,
		data: emptyCollections(),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}

		return nil, fmt.Errorf("os.ReadFile -> %w", err)
	}

	if err = bson.UnmarshalExtJSON(raw, false, &s.data); err != nil {
		return nil, fmt.Errorf("bson.UnmarshalExtJSON -> %w", err)
	}

	return s, nil
}

func emptyCollections() map[string][]bson.M {
	return map[string][]bson.M{
		CollectionOrgs:     {},
		CollectionClasses:  {},
		CollectionStudents: {},
		CollectionCheckins: {},
		CollectionMoods:    {},
		CollectionAvatars:  {},
		CollectionPins:     {},
		CollectionUsers:    {},
	}
}

func (s *FileStore) Find(_ context.Context, collection string, filter Filter, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []bson.M
	for _, doc := range s.data[collection] {
		if matchesFilter(doc, filter) {
			matches = append(matches, doc)
		}
	}

	return decodeAll(matches, out)
}

func (s *FileStore) FindOne(_ context.Context, collection string, filter Filter, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.data[collection] {
		if matchesFilter(doc, filter) {
			return decodeOne(doc, out)
		}
	}

	return ErrNotFound
}

func (s *FileStore) Insert(_ context.Context, collection string, doc interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := toDocument(doc)
	if err != nil {
		return err
	}

	s.data[collection] = append(s.data[collection], m)

	return s.save()
}

func (s *FileStore) UpdateOne(_ context.Context, collection string, filter Filter, doc interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.data[collection] {
		if matchesFilter(existing, filter) {
			m, err := toDocument(doc)
			if err != nil {
				return err
			}

			s.data[collection][i] = m

			return s.save()
		}
	}

	return ErrNotFound
}

func (s *FileStore) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data[collection][:0]
	var deleted int64
	for _, doc := range s.data[collection] {
		if matchesFilter(doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}

	if deleted == 0 {
		return 0, nil
	}

	s.data[collection] = kept

	return deleted, s.save()
}

func (s *FileStore) Count(_ context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, doc := range s.data[collection] {
		if matchesFilter(doc, filter) {
			count++
		}
	}

	return count, nil
}

func (s *FileStore) Close(_ context.Context) error {
	return nil
}

// save writes the whole document back. Callers must hold the mutex.
func (s *FileStore) save() error {
	raw, err := bson.MarshalExtJSON(s.data, false, false)
	if err != nil {
		return fmt.Errorf("bson.MarshalExtJSON -> %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile -> %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("os.Rename -> %w", err)
	}

	return nil
}

func matchesFilter(doc bson.M, filter Filter) bool {
	for key, want := range filter {
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}

	return true
}

// toDocument round-trips a typed record through bson so the file
// backend stores exactly the same field names as the mongo backend.
func toDocument(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("bson.Marshal -> %w", err)
	}

	var m bson.M
	if err = bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bson.Unmarshal -> %w", err)
	}

	return m, nil
}

func decodeOne(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("bson.Marshal -> %w", err)
	}

	if err = bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("bson.Unmarshal -> %w", err)
	}

	return nil
}

// decodeAll decodes matches into out, which must be a pointer to a
// slice, mirroring mongo's cursor.All.
func decodeAll(docs []bson.M, out interface{}) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}

	sliceVal := v.Elem()
	result := reflect.MakeSlice(sliceVal.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(sliceVal.Type().Elem())
		if err := decodeOne(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}

	sliceVal.Set(result)

	return nil
}
