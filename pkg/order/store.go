package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
)

// Order statuses. An order counts as an "active drink" for the per-phone
// ceiling until a barista marks it ready.
const (
	StatusReceived = "received"
	StatusReady    = "ready"
)

// ErrNotFound is returned when an order number is not in the store.
var ErrNotFound = errors.New("order: not found")

// Order is a finalized, immutable order record - the unit persisted to the
// store. Pending orders never reach the store.
type Order struct {
	Number    string  `json:"order_number"`
	Items     []Item  `json:"items"`
	Phone     string  `json:"phone,omitempty"`
	Total     float64 `json:"total"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
}

// Store persists finalized orders in BadgerDB. In-memory mode backs tests.
type Store struct {
	db *badger.DB
}

// StoreOptions configures the order store.
type StoreOptions struct {
	// Dir is the badger data directory. Required unless InMemory is set.
	Dir string
	// InMemory skips disk persistence entirely.
	InMemory bool
}

func OpenStore(opts StoreOptions) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("order: StoreOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("opening order store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Reset drops every stored order. The process starts each run with a clean
// store, matching the single-shop demo deployment.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.DropAll()
}

func orderKey(number string) []byte { return []byte("order:" + number) }

func (s *Store) Put(ctx context.Context, o *Order) error {
	val, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding order %s: %w", o.Number, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(orderKey(o.Number), val)
	})
}

func (s *Store) Get(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(orderKey(number))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &o)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// all returns every stored order, newest first.
func (s *Store) all(ctx context.Context) ([]*Order, error) {
	var out []*Order
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte("order:")
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek(iterOpts.Prefix); it.ValidForPrefix(iterOpts.Prefix); it.Next() {
			var o Order
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &o)
			}); err != nil {
				return err
			}
			out = append(out, &o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]*Order, error) {
	orders, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// InProgress returns orders not yet marked ready, newest first.
func (s *Store) InProgress(ctx context.Context, limit int) ([]*Order, error) {
	orders, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Order
	for _, o := range orders {
		if o.Status != StatusReady {
			out = append(out, o)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) SetStatus(ctx context.Context, number, status string) error {
	o, err := s.Get(ctx, number)
	if err != nil {
		return err
	}
	o.Status = status
	return s.Put(ctx, o)
}

// Phone returns the phone recorded for an order, or "" if none.
func (s *Store) Phone(ctx context.Context, number string) (string, error) {
	o, err := s.Get(ctx, number)
	if err != nil {
		return "", err
	}
	return o.Phone, nil
}

// LatestForPhone returns the most recent order for a normalized phone.
func (s *Store) LatestForPhone(ctx context.Context, phone string) (*Order, error) {
	if phone == "" {
		return nil, ErrNotFound
	}
	orders, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Phone == phone {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

// CountActiveDrinks sums the items of every non-ready order for a phone.
// The result feeds the cross-call concurrent-drink ceiling; it is computed
// from the store on every checkout rather than cached.
func (s *Store) CountActiveDrinks(ctx context.Context, phone string) (int, error) {
	if phone == "" {
		return 0, nil
	}
	orders, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, o := range orders {
		if o.Phone == phone && o.Status != StatusReady {
			count += len(o.Items)
		}
	}
	return count, nil
}
