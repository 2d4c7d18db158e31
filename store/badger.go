package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// Key prefixes for BadgerDB storage organization.
// Using single-byte prefixes for efficiency.
const (
	prefixTriple    = byte(0x01) // triple: subject 0x00 predicate 0x00 termKey -> JSON(term)
	prefixTypeIndex = byte(0x02) // type index: typeTag 0x00 subject -> []byte{}
)

const keySep = byte(0x00)

// BadgerStore is a persistent embedded triple store backed by BadgerDB.
//
// Key structure:
//   - Triples: 0x01 + subject + 0x00 + predicate + 0x00 + term key -> JSON(term)
//   - Type index: 0x02 + class IRI + 0x00 + subject -> empty
//
// The type index is maintained on every ApplyDelta for triples whose
// predicate is rdf:type, making InstancesOfType a prefix scan.
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions configures the badger-backed store.
type BadgerOptions struct {
	// DataDir is the directory for data files. Required unless InMemory.
	DataDir string

	// InMemory runs BadgerDB without persistence. Useful for tests.
	InMemory bool

	// SyncWrites forces fsync after each write.
	SyncWrites bool
}

// OpenBadger opens a persistent store in dataDir with default settings.
func OpenBadger(dataDir string) (*BadgerStore, error) {
	return OpenBadgerWithOptions(BadgerOptions{DataDir: dataDir})
}

// OpenBadgerWithOptions opens a store with custom configuration.
func OpenBadgerWithOptions(opts BadgerOptions) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir).WithLogger(nil)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}
	// Modest buffer sizes; the working set of a sync mirror is small.
	badgerOpts = badgerOpts.
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// OutgoingEdges implements Client.
func (b *BadgerStore) OutgoingEdges(_ context.Context, ids []string) (map[string]map[string][]triple.Term, error) {
	out := make(map[string]map[string][]triple.Term)
	err := b.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			prefix := subjectPrefix(id)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				predicate, ok := predicateFromKey(item.Key(), prefix)
				if !ok {
					continue
				}
				var term triple.Term
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &term)
				}); err != nil {
					it.Close()
					return fmt.Errorf("decode term for %s %s: %w", id, predicate, err)
				}
				node, ok := out[id]
				if !ok {
					node = make(map[string][]triple.Term)
					out[id] = node
				}
				node[predicate] = append(node[predicate], term)
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InstancesOfType implements Client.
func (b *BadgerStore) InstancesOfType(_ context.Context, typeTag string) ([]string, error) {
	var ids []string
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := typeIndexPrefix(typeTag)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ApplyDelta implements Client. The delete-then-insert runs inside one
// badger transaction.
func (b *BadgerStore) ApplyDelta(_ context.Context, delta *triple.Delta) error {
	if delta == nil || delta.Empty() {
		return nil
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, t := range delta.Remove.Triples() {
			if err := txn.Delete(tripleKey(t)); err != nil {
				return err
			}
			if idx, ok := typeIndexKey(t); ok {
				if err := txn.Delete(idx); err != nil {
					return err
				}
			}
		}
		for _, t := range delta.Add.Triples() {
			val, err := json.Marshal(t.Object)
			if err != nil {
				return fmt.Errorf("encode term %s: %w", t.Object, err)
			}
			if err := txn.Set(tripleKey(t), val); err != nil {
				return err
			}
			if idx, ok := typeIndexKey(t); ok {
				if err := txn.Set(idx, nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// FreshIdentifier implements Client.
func (b *BadgerStore) FreshIdentifier(namespace, typeName string) string {
	return freshIdentifier(namespace, typeName)
}

func subjectPrefix(subject string) []byte {
	key := make([]byte, 0, len(subject)+2)
	key = append(key, prefixTriple)
	key = append(key, subject...)
	key = append(key, keySep)
	return key
}

func tripleKey(t triple.Triple) []byte {
	termKey := t.Object.Key()
	key := make([]byte, 0, len(t.Subject)+len(t.Predicate)+len(termKey)+3)
	key = append(key, prefixTriple)
	key = append(key, t.Subject...)
	key = append(key, keySep)
	key = append(key, t.Predicate...)
	key = append(key, keySep)
	key = append(key, termKey...)
	return key
}

// predicateFromKey extracts the predicate from a triple key given the
// subject prefix it was scanned under.
func predicateFromKey(key, prefix []byte) (string, bool) {
	rest := key[len(prefix):]
	i := bytes.IndexByte(rest, keySep)
	if i < 0 {
		return "", false
	}
	return string(rest[:i]), true
}

func typeIndexPrefix(typeTag string) []byte {
	key := make([]byte, 0, len(typeTag)+2)
	key = append(key, prefixTypeIndex)
	key = append(key, typeTag...)
	key = append(key, keySep)
	return key
}

// typeIndexKey returns the index key for an rdf:type triple, or false for
// every other triple.
func typeIndexKey(t triple.Triple) ([]byte, bool) {
	if t.Predicate != rdf.Type || !t.Object.IsIRI() {
		return nil, false
	}
	key := typeIndexPrefix(t.Object.IRIValue())
	key = append(key, t.Subject...)
	return key, true
}
