package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stillmatic/bobaline/pkg/order"
)

func newTestStore(t *testing.T) *order.Store {
	t.Helper()
	s, err := order.OpenStore(order.StoreOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "1234")
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	o := &order.Order{
		Number:    "1234",
		Items:     []order.Item{{Flavor: "taro milk tea", Toppings: []string{"boba"}}},
		Phone:     "+16145551234",
		Total:     6.25,
		Status:    order.StatusReceived,
		CreatedAt: 100,
	}
	if err := s.Put(ctx, o); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "1234")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Phone != o.Phone || got.Total != o.Total || len(got.Items) != 1 {
		t.Fatalf("round trip = %+v", got)
	}

	phone, err := s.Phone(ctx, "1234")
	if err != nil || phone != "+16145551234" {
		t.Fatalf("Phone = %q, %v", phone, err)
	}
}

func TestStoreRecentAndInProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i, num := range []string{"0001", "0002", "0003"} {
		if err := s.Put(ctx, &order.Order{
			Number:    num,
			Status:    order.StatusReceived,
			CreatedAt: int64(i + 1),
		}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := s.SetStatus(ctx, "0002", order.StatusReady); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Number != "0003" {
		t.Fatalf("Recent = %v", recent)
	}

	inProgress, err := s.InProgress(ctx, 0)
	if err != nil {
		t.Fatalf("InProgress: %v", err)
	}
	if len(inProgress) != 2 {
		t.Fatalf("InProgress returned %d orders, want 2", len(inProgress))
	}
	for _, o := range inProgress {
		if o.Status == order.StatusReady {
			t.Fatalf("ready order %s in InProgress", o.Number)
		}
	}
}

func TestStoreLatestForPhone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	phone := "+16145551234"
	s.Put(ctx, &order.Order{Number: "0001", Phone: phone, CreatedAt: 1, Status: order.StatusReceived})
	s.Put(ctx, &order.Order{Number: "0002", Phone: phone, CreatedAt: 2, Status: order.StatusReceived})
	s.Put(ctx, &order.Order{Number: "0003", Phone: "+19995550000", CreatedAt: 3, Status: order.StatusReceived})

	got, err := s.LatestForPhone(ctx, phone)
	if err != nil {
		t.Fatalf("LatestForPhone: %v", err)
	}
	if got.Number != "0002" {
		t.Fatalf("latest = %s, want 0002", got.Number)
	}

	if _, err := s.LatestForPhone(ctx, "+10000000000"); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Put(ctx, &order.Order{Number: "0001", Status: order.StatusReceived})
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Get(ctx, "0001"); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("order survived reset: %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"6145551234", "+16145551234"},
		{"16145551234", "+16145551234"},
		{"(614) 555-1234", "+16145551234"},
		{"+16145551234", "+16145551234"},
		{"+44 20 7946 0958", "+442079460958"},
		{"+1234", ""},
		{"", ""},
		{"n/a", ""},
	}
	for _, tt := range tests {
		if got := order.NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractPhoneAndOrder(t *testing.T) {
	phone, num := order.ExtractPhoneAndOrder("my number is 6145551234 and order 2835 please")
	if phone != "+16145551234" {
		t.Errorf("phone = %q", phone)
	}
	if num != "2835" {
		t.Errorf("order = %q", num)
	}

	phone, num = order.ExtractPhoneAndOrder("nothing here")
	if phone != "" || num != "" {
		t.Errorf("extracted %q, %q from junk", phone, num)
	}
}
