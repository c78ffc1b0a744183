package console_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stillmatic/bobaline/pkg/console"
	"github.com/stillmatic/bobaline/pkg/events"
	"github.com/stillmatic/bobaline/pkg/order"
)

type countingNotifier struct {
	mu    sync.Mutex
	ready []string
}

func (c *countingNotifier) OrderReceived(ctx context.Context, orderNo, phone string) error {
	return nil
}

func (c *countingNotifier) OrderReady(ctx context.Context, orderNo, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = append(c.ready, orderNo+"/"+phone)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *order.Store, *events.Bus, *countingNotifier) {
	t.Helper()
	store, err := order.OpenStore(order.StoreOptions{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := events.NewBus()
	notifier := &countingNotifier{}
	srv := &console.Server{Store: store, Bus: bus, Notifier: notifier}
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store, bus, notifier
}

func seedOrder(t *testing.T, store *order.Store, number, phone string) {
	t.Helper()
	err := store.Put(context.Background(), &order.Order{
		Number:    number,
		Phone:     phone,
		Total:     5.50,
		Status:    order.StatusReceived,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestVoiceTwiML(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	res, err := http.Post(ts.URL+"/voice", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body strings.Builder
	if _, err := bufio.NewReader(res.Body).WriteTo(&body); err != nil {
		t.Fatal(err)
	}
	if ct := res.Header.Get("Content-Type"); ct != "text/xml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	host := strings.TrimPrefix(ts.URL, "http://")
	want := `<Stream url="wss://` + host + `/twilio" />`
	if !strings.Contains(body.String(), want) {
		t.Fatalf("twiml missing %s:\n%s", want, body.String())
	}
}

func TestVoiceTwiMLHostOverride(t *testing.T) {
	store, err := order.OpenStore(order.StoreOptions{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	srv := &console.Server{Store: store, Bus: events.NewBus(), VoiceHost: "boba.example.com", WSScheme: "ws"}
	mux := http.NewServeMux()
	srv.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/voice", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `<Stream url="ws://boba.example.com/twilio" />`) {
		t.Fatalf("twiml missing override host:\n%s", rec.Body.String())
	}
}

func TestOrdersJSON(t *testing.T) {
	ts, store, _, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/orders.json")
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatalf("decode empty list: %v", err)
	}
	res.Body.Close()
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}

	seedOrder(t, store, "1234", "+16145551234")
	res, err = http.Get(ts.URL + "/orders/in_progress.json")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0]["order_number"] != "1234" || list[0]["status"] != order.StatusReceived {
		t.Fatalf("unexpected in-progress list: %v", list)
	}
}

func TestPhoneLookup(t *testing.T) {
	ts, store, _, _ := newTestServer(t)
	seedOrder(t, store, "1234", "+16145551234")

	res, err := http.Get(ts.URL + "/api/orders/phone/1234")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["phone"] != "+16145551234" {
		t.Fatalf("unexpected phone payload: %v", body)
	}
}

func TestMarkDone(t *testing.T) {
	ts, store, bus, notifier := newTestServer(t)
	seedOrder(t, store, "2835", "+16145551234")
	_, ch := bus.Subscribe()

	res, err := http.Post(ts.URL+"/api/orders/2835/done", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	o, err := store.Get(context.Background(), "2835")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != order.StatusReady {
		t.Fatalf("expected status ready, got %q", o.Status)
	}
	if len(notifier.ready) != 1 || notifier.ready[0] != "2835/+16145551234" {
		t.Fatalf("unexpected ready texts: %v", notifier.ready)
	}
	select {
	case evt := <-ch:
		if evt.Type != events.TypeOrderStatusChanged || evt.OrderNumber != "2835" || evt.Status != order.StatusReady {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a status change event")
	}

	// Ready orders drop off the in-progress feed.
	res2, err := http.Get(ts.URL + "/orders/in_progress.json")
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Body.Close()
	var list []map[string]any
	if err := json.NewDecoder(res2.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no in-progress orders, got %v", list)
	}
}

func TestMarkDoneUnknownOrder(t *testing.T) {
	ts, _, _, notifier := newTestServer(t)
	res, err := http.Post(ts.URL+"/api/orders/9999/done", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	if len(notifier.ready) != 0 {
		t.Fatalf("expected no texts, got %v", notifier.ready)
	}
}

func TestSeedOrders(t *testing.T) {
	ts, store, bus, _ := newTestServer(t)
	_, ch := bus.Subscribe()

	res, err := http.Post(ts.URL+"/api/seed?n=3", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body struct {
		OK     bool     `json:"ok"`
		Orders []string `json:"orders"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || len(body.Orders) != 3 {
		t.Fatalf("unexpected seed response: %+v", body)
	}

	for _, num := range body.Orders {
		o, err := store.Get(context.Background(), num)
		if err != nil {
			t.Fatalf("seeded order %s not stored: %v", num, err)
		}
		if o.Status != order.StatusReceived || o.Phone != "+16145550123" {
			t.Fatalf("unexpected seeded order: %+v", o)
		}
		select {
		case evt := <-ch:
			if evt.Type != events.TypeOrderCreated {
				t.Fatalf("unexpected event: %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatal("expected an order_created event per seeded order")
		}
	}

	res2, err := http.Post(ts.URL+"/api/seed?n=0", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for n=0, got %d", res2.StatusCode)
	}
}

func TestEventStream(t *testing.T) {
	ts, _, bus, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/orders/events")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	// The handler subscribes before writing headers, so once the response
	// headers are in, publishing is safe.
	bus.Publish(events.Event{Type: events.TypeOrderCreated, OrderNumber: "2835", Status: order.StatusReceived})

	reader := bufio.NewReader(res.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("expected SSE data line, got %q", line)
	}
	var evt events.Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &evt); err != nil {
		t.Fatal(err)
	}
	if evt.Type != events.TypeOrderCreated || evt.OrderNumber != "2835" {
		t.Fatalf("unexpected event: %+v", evt)
	}
}
