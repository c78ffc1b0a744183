package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stillmatic/bobaline/pkg/menu"
	"github.com/stillmatic/bobaline/pkg/order"
)

// Handler executes one agent tool call against the session. The returned
// value is serialized to JSON and sent back verbatim as the tool result.
type Handler func(ctx context.Context, args map[string]any) any

// Dispatch routes function-call requests from the agent to order handlers.
// Every invocation returns a JSON string; handler failures are converted to
// {"ok": false, ...} results rather than surfaced as errors, so a bad tool
// call never tears down the bridge.
type Dispatch struct {
	session  *order.Session
	store    *order.Store
	handlers map[string]Handler
}

func NewDispatch(session *order.Session, store *order.Store) *Dispatch {
	d := &Dispatch{session: session, store: store}
	d.handlers = map[string]Handler{
		"menu_summary":            d.menuSummary,
		"add_to_cart":             d.addToCart,
		"update_pending_item":     d.updatePendingItem,
		"confirm_pending_to_cart": d.confirmPendingToCart,
		"clear_pending_item":      d.clearPendingItem,
		"get_cart":                d.getCart,
		"order_is_placed":         d.orderIsPlaced,
		"remove_from_cart":        d.removeFromCart,
		"modify_cart_item":        d.modifyCartItem,
		"set_sweetness_ice":       d.setSweetnessIce,
		"checkout_order":          d.checkoutOrder,
		"order_status":            d.orderStatus,
		"extract_phone_and_order": d.extractPhoneAndOrder,
		"save_phone_number":       d.savePhoneNumber,
		"confirm_phone":           d.confirmPhone,
	}
	return d
}

// Invoke runs the named handler and returns its JSON-encoded result.
// Malformed argument payloads degrade to an empty argument map so handlers
// can apply their own defaults.
func (d *Dispatch) Invoke(ctx context.Context, name, rawArgs string) (content string) {
	defer func() {
		if r := recover(); r != nil {
			content = mustJSON(map[string]any{"ok": false, "error": fmt.Sprint(r)})
		}
	}()

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			args = map[string]any{}
		}
	}

	h, ok := d.handlers[name]
	if !ok {
		return mustJSON(map[string]any{"ok": false, "error": fmt.Sprintf("Unknown function '%s'", name)})
	}
	return mustJSON(h(ctx, args))
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error())
	}
	return string(b)
}

// failResult flattens a handler error into a tool result. Validation errors
// carry their code and context so the agent can recover conversationally.
func failResult(err error) map[string]any {
	res := map[string]any{"ok": false, "error": err.Error()}
	var verr *order.ValidationError
	if errors.As(err, &verr) {
		res["error"] = verr.Message
		res["code"] = string(verr.Code)
		for k, v := range verr.Context {
			res[k] = v
		}
	}
	return res
}

func strArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// listArg reads a list-valued argument. A bare string coerces to a
// singleton list; the speech layer sends both shapes.
func listArg(args map[string]any, key string) []string {
	switch raw := args[key].(type) {
	case []any:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{raw}
	default:
		return nil
	}
}

func intArg(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func (d *Dispatch) menuSummary(ctx context.Context, args map[string]any) any {
	return menu.Summary()
}

func (d *Dispatch) addToCart(ctx context.Context, args map[string]any) any {
	item, summary := d.session.Stage(
		strArg(args, "flavor"),
		listArg(args, "toppings"),
		strArg(args, "sweetness"),
		strArg(args, "ice"),
		listArg(args, "addons"),
	)
	return map[string]any{"ok": true, "staged": true, "pending_item": item, "summary": summary}
}

func patchFromArgs(args map[string]any) order.ItemPatch {
	var p order.ItemPatch
	if v, ok := args["flavor"].(string); ok {
		p.Flavor = &v
	}
	if _, ok := args["toppings"]; ok {
		p.Toppings = listArg(args, "toppings")
	}
	if v, ok := args["sweetness"].(string); ok {
		p.Sweetness = &v
	}
	if v, ok := args["ice"].(string); ok {
		p.Ice = &v
	}
	if _, ok := args["addons"]; ok {
		p.Addons = listArg(args, "addons")
	}
	return p
}

func (d *Dispatch) updatePendingItem(ctx context.Context, args map[string]any) any {
	item, summary := d.session.UpdatePending(patchFromArgs(args))
	return map[string]any{"ok": true, "pending_item": item, "summary": summary}
}

func (d *Dispatch) confirmPendingToCart(ctx context.Context, args map[string]any) any {
	item, count, err := d.session.CommitPendingToCart()
	if err != nil {
		return failResult(err)
	}
	return map[string]any{"ok": true, "item": item, "cart_count": count, "cart_total": d.session.CartTotal()}
}

func (d *Dispatch) clearPendingItem(ctx context.Context, args map[string]any) any {
	d.session.ClearPending()
	return map[string]any{"ok": true, "cleared": true}
}

func (d *Dispatch) getCart(ctx context.Context, args map[string]any) any {
	cart := d.session.Cart()
	return map[string]any{"ok": true, "cart": cart, "cart_count": len(cart), "cart_total": d.session.CartTotal()}
}

func (d *Dispatch) orderIsPlaced(ctx context.Context, args map[string]any) any {
	num := d.session.OrderNumber()
	res := map[string]any{"placed": num != ""}
	if num != "" {
		res["order_number"] = num
	}
	return res
}

func (d *Dispatch) removeFromCart(ctx context.Context, args map[string]any) any {
	removed, count, err := d.session.RemoveFromCart(intArg(args, "index", -1))
	if err != nil {
		return failResult(err)
	}
	return map[string]any{"ok": true, "removed": removed, "cart_count": count, "cart_total": d.session.CartTotal()}
}

func (d *Dispatch) modifyCartItem(ctx context.Context, args map[string]any) any {
	item, err := d.session.ModifyCartItem(intArg(args, "index", -1), patchFromArgs(args))
	if err != nil {
		return failResult(err)
	}
	return map[string]any{"ok": true, "item": item}
}

func (d *Dispatch) setSweetnessIce(ctx context.Context, args map[string]any) any {
	var index *int
	if v, ok := args["index"].(float64); ok {
		i := int(v)
		index = &i
	}
	item, err := d.session.SetSweetnessIce(index, strArg(args, "sweetness"), strArg(args, "ice"))
	if err != nil {
		return failResult(err)
	}
	return map[string]any{"ok": true, "item": item}
}

func (d *Dispatch) checkoutOrder(ctx context.Context, args map[string]any) any {
	if num := d.session.OrderNumber(); num != "" {
		return map[string]any{
			"ok":              true,
			"order_number":    num,
			"already_created": true,
			"message":         "Order number already generated for this call",
		}
	}
	po, err := d.session.Checkout(ctx, strArg(args, "phone"))
	if err != nil {
		return failResult(err)
	}
	return map[string]any{
		"ok":           true,
		"order_number": po.Number,
		"items":        po.Items,
		"phone":        po.Phone,
		"total":        po.Total,
		"status":       order.StatusReceived,
		"created_at":   po.CreatedAt,
	}
}

func (d *Dispatch) orderStatus(ctx context.Context, args map[string]any) any {
	found := func(o *order.Order) map[string]any {
		return map[string]any{
			"found":        true,
			"order_number": o.Number,
			"status":       o.Status,
			"total":        o.Total,
			"items":        o.Items,
		}
	}
	if num := strArg(args, "order_number"); num != "" {
		o, err := d.store.Get(ctx, num)
		if err == nil {
			return found(o)
		}
		if !errors.Is(err, order.ErrNotFound) {
			return failResult(err)
		}
		// unmatched numbers fall through to the phone lookup
	}
	if phone := order.NormalizePhone(strArg(args, "phone")); phone != "" {
		o, err := d.store.LatestForPhone(ctx, phone)
		if err == nil {
			return found(o)
		}
		if !errors.Is(err, order.ErrNotFound) {
			return failResult(err)
		}
	}
	return map[string]any{"found": false}
}

func (d *Dispatch) extractPhoneAndOrder(ctx context.Context, args map[string]any) any {
	phone, orderNo := order.ExtractPhoneAndOrder(strArg(args, "text"))
	res := map[string]any{}
	if phone != "" {
		res["phone"] = phone
	}
	if orderNo != "" {
		res["order_number"] = orderNo
	}
	return res
}

func (d *Dispatch) savePhoneNumber(ctx context.Context, args map[string]any) any {
	normalized := d.session.SavePhone(strArg(args, "phone"))
	if normalized == "" {
		return map[string]any{"ok": false, "error": "could not parse phone number"}
	}
	return map[string]any{"ok": true, "phone": normalized}
}

func (d *Dispatch) confirmPhone(ctx context.Context, args map[string]any) any {
	confirmed, _ := args["confirmed"].(bool)
	d.session.ConfirmPhone(confirmed)
	return map[string]any{"ok": true, "phone_confirmed": confirmed}
}
