package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// MaxDrinks caps both the cart and the cross-call active-drink ceiling per
// phone number.
const MaxDrinks = 10

// PendingOrder is a checked-out order that has a number but is not yet
// finalized. It stays editable until the call ends: cart edits after
// checkout are re-snapshotted at finalize time.
type PendingOrder struct {
	Number    string  `json:"order_number"`
	Items     []Item  `json:"items"`
	Phone     string  `json:"phone,omitempty"`
	Total     float64 `json:"total"`
	CreatedAt int64   `json:"created_at"`
	Committed bool    `json:"committed"`
}

// Session owns all order state for one call. The bridge creates one per
// telephony connection and hands it to the function handlers, so concurrent
// calls in one process cannot see each other's carts. Cross-call state (the
// active-drink ceiling) lives in the Store.
type Session struct {
	mu    sync.Mutex
	store *Store

	streamSID      string
	phone          string
	phoneConfirmed bool
	orderNumber    string
	notified       bool

	staged  *Item
	cart    []Item
	pending map[string]*PendingOrder
}

func NewSession(store *Store) *Session {
	return &Session{
		store:   store,
		pending: make(map[string]*PendingOrder),
	}
}

// SetStreamSID records the stream identifier assigned by the telephony side
// at call start.
func (s *Session) SetStreamSID(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamSID = sid
}

func (s *Session) StreamSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamSID
}

// Stage replaces any staged item with a new drink request. Nothing is
// validated against the menu here; that waits for commit.
func (s *Session) Stage(flavor string, toppings []string, sweetness, ice string, addons []string) (Item, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := &Item{
		Flavor:    flavor,
		Toppings:  coerceList(toppings),
		Sweetness: sweetness,
		Ice:       ice,
		Addons:    coerceList(addons),
	}
	s.staged = it
	return it.clone(), it.Summary()
}

// UpdatePending merges non-nil patch fields into the staged item, creating
// one if nothing is staged. List fields replace rather than append.
func (s *Session) UpdatePending(patch ItemPatch) (Item, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		s.staged = &Item{Toppings: []string{}, Addons: []string{}}
	}
	s.staged.merge(patch)
	return s.staged.clone(), s.staged.Summary()
}

// ClearPending discards the staged item. Idempotent.
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

// Pending returns a copy of the staged item, or nil.
func (s *Session) Pending() *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return nil
	}
	it := s.staged.clone()
	return &it
}

// CommitPendingToCart validates the staged item and appends it to the cart.
// On any failure the staged item is left in place so the caller can fix it
// and retry.
func (s *Session) CommitPendingToCart() (Item, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked()
}

func (s *Session) commitLocked() (Item, int, error) {
	if s.staged == nil || s.staged.Flavor == "" {
		return Item{}, len(s.cart), validationErr(CodeNoPendingItem,
			"No pending drink to confirm.", nil)
	}
	if len(s.cart) >= MaxDrinks {
		return Item{}, len(s.cart), validationErr(CodeCartFull,
			fmt.Sprintf("Max %d drinks per order.", MaxDrinks),
			map[string]any{"limit": MaxDrinks})
	}
	resolved, err := resolveItem(*s.staged)
	if err != nil {
		return Item{}, len(s.cart), err
	}
	s.cart = append(s.cart, resolved)
	s.staged = nil
	return resolved, len(s.cart), nil
}

// Cart returns a copy of the committed items.
func (s *Session) Cart() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.cart))
	for i := range s.cart {
		out[i] = s.cart[i].clone()
	}
	return out
}

// CartTotal prices the current cart.
func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartTotal(s.cart)
}

// RemoveFromCart deletes the item at index and returns it with the new
// cart size.
func (s *Session) RemoveFromCart(index int) (Item, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart) {
		return Item{}, len(s.cart), validationErr(CodeIndexOutOfRange,
			"Index out of range.",
			map[string]any{"index": index, "cart_count": len(s.cart)})
	}
	removed := s.cart[index]
	s.cart = append(s.cart[:index], s.cart[index+1:]...)
	return removed, len(s.cart), nil
}

// ModifyCartItem applies a partial update to an existing cart slot, running
// the same validation pipeline as commit. The slot is untouched on failure.
func (s *Session) ModifyCartItem(index int, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart) {
		return Item{}, validationErr(CodeIndexOutOfRange,
			"Index out of range.",
			map[string]any{"index": index, "cart_count": len(s.cart)})
	}
	candidate := s.cart[index].clone()
	candidate.merge(patch)
	resolved, err := resolveItem(candidate)
	if err != nil {
		return Item{}, err
	}
	s.cart[index] = resolved
	return resolved, nil
}

// SetSweetnessIce updates sweetness and/or ice for the item at index, or
// the last item when index is nil.
func (s *Session) SetSweetnessIce(index *int, sweetness, ice string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return Item{}, validationErr(CodeEmptyCart, "Cart is empty.", nil)
	}
	i := len(s.cart) - 1
	if index != nil {
		i = *index
	}
	if i < 0 || i >= len(s.cart) {
		return Item{}, validationErr(CodeIndexOutOfRange,
			"Index out of range.",
			map[string]any{"index": i, "cart_count": len(s.cart)})
	}
	if sweetness != "" {
		s.cart[i].Sweetness = sweetness
	}
	if ice != "" {
		s.cart[i].Ice = ice
	}
	return s.cart[i].clone(), nil
}

// Checkout commits any staged item (silently - a staging failure does not
// fail the checkout), enforces the cross-call drink ceiling, assigns a
// 4-digit order number, and creates a pending order. The cart stays intact
// so the caller can keep editing until hangup.
func (s *Session) Checkout(ctx context.Context, phone string) (*PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged != nil {
		_, _, _ = s.commitLocked()
	}
	if len(s.cart) == 0 {
		return nil, validationErr(CodeEmptyCart, "Cart is empty.", nil)
	}

	norm := NormalizePhone(phone)
	effective := norm
	if effective == "" {
		effective = s.phone
	}
	active, err := s.store.CountActiveDrinks(ctx, effective)
	if err != nil {
		return nil, fmt.Errorf("counting active drinks: %w", err)
	}
	if active+len(s.cart) > MaxDrinks {
		return nil, validationErr(CodeDrinkLimitExceeded,
			fmt.Sprintf("You already have %d drinks in progress; adding %d would exceed the %d-drink limit.",
				active, len(s.cart), MaxDrinks),
			map[string]any{
				"active_drinks": active,
				"attempted":     len(s.cart),
				"limit":         MaxDrinks,
			})
	}

	items := make([]Item, len(s.cart))
	copy(items, s.cart)
	po := &PendingOrder{
		Number:    randomOrderNumber(),
		Items:     items,
		Phone:     effective,
		Total:     cartTotal(items),
		CreatedAt: time.Now().Unix(),
	}
	s.pending[po.Number] = po
	s.orderNumber = po.Number
	if norm != "" {
		s.phone = norm
		s.phoneConfirmed = true
	}
	return po, nil
}

// Finalize consumes a pending order: the item snapshot is refreshed from
// the live cart (post-checkout edits included), the order is persisted, and
// the cart is cleared. An emptied cart keeps the checkout-time snapshot:
// removing every item after checkout does not finalize a zero-item order.
// A second finalize of the same number fails with
// pending_order_not_found; callers guard exactly-once side effects with the
// notified flag, not by retrying.
func (s *Session) Finalize(ctx context.Context, number string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.pending[number]
	if !ok {
		return nil, validationErr(CodePendingOrderNotFound,
			fmt.Sprintf("No pending order %s.", number),
			map[string]any{"order_number": number})
	}
	if len(s.cart) > 0 {
		po.Items = make([]Item, len(s.cart))
		copy(po.Items, s.cart)
		po.Total = cartTotal(po.Items)
	}
	po.Committed = true
	o := &Order{
		Number:    po.Number,
		Items:     po.Items,
		Phone:     po.Phone,
		Total:     po.Total,
		Status:    StatusReceived,
		CreatedAt: po.CreatedAt,
	}
	if err := s.store.Put(ctx, o); err != nil {
		return nil, fmt.Errorf("persisting order %s: %w", number, err)
	}
	delete(s.pending, number)
	s.cart = nil
	return o, nil
}

// Discard drops a pending order and clears the cart. Used when the call
// ends without a confirmed phone. Idempotent.
func (s *Session) Discard(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, number)
	s.cart = nil
}

// SavePhone normalizes and records the caller's phone, marking it
// confirmed.
func (s *Session) SavePhone(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = NormalizePhone(phone)
	s.phoneConfirmed = true
	return s.phone
}

// ConfirmPhone records the caller's explicit yes/no to the read-back.
func (s *Session) ConfirmPhone(confirmed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phoneConfirmed = confirmed
}

func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

func (s *Session) PhoneConfirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phoneConfirmed
}

// OrderNumber returns the number assigned by checkout, or "".
func (s *Session) OrderNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderNumber
}

// Notified reports whether the confirmation notification already went out.
// Monotonic: once set it never reverts within a call.
func (s *Session) Notified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}

func (s *Session) MarkNotified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = true
}

// randomOrderNumber picks a speakable 4-digit number. There is no
// uniqueness check against open orders; at one phone line per shop the
// collision odds are accepted.
func randomOrderNumber() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}

func coerceList(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return append([]string(nil), xs...)
}
