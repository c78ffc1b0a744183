package order

import (
	"fmt"
	"strings"

	"github.com/stillmatic/bobaline/pkg/menu"
)

// Item is one drink. While staged it may hold unresolved tokens and empty
// fields; once committed to the cart every field is canonical and priced.
type Item struct {
	Flavor    string   `json:"flavor"`
	Toppings  []string `json:"toppings"`
	Sweetness string   `json:"sweetness,omitempty"`
	Ice       string   `json:"ice,omitempty"`
	Addons    []string `json:"addons"`
	Price     float64  `json:"price,omitempty"`
}

// ItemPatch is a partial item update. Nil fields are left alone; non-nil
// list fields replace, they do not append.
type ItemPatch struct {
	Flavor    *string
	Toppings  []string
	Sweetness *string
	Ice       *string
	Addons    []string
}

func (it *Item) merge(p ItemPatch) {
	if p.Flavor != nil {
		it.Flavor = *p.Flavor
	}
	if p.Sweetness != nil {
		it.Sweetness = *p.Sweetness
	}
	if p.Ice != nil {
		it.Ice = *p.Ice
	}
	if p.Toppings != nil {
		it.Toppings = append([]string(nil), p.Toppings...)
	}
	if p.Addons != nil {
		it.Addons = append([]string(nil), p.Addons...)
	}
}

func (it *Item) clone() Item {
	out := *it
	out.Toppings = append([]string(nil), it.Toppings...)
	out.Addons = append([]string(nil), it.Addons...)
	return out
}

// Summary renders a staged item for the agent to read back.
func (it *Item) Summary() string {
	if it == nil {
		return "no pending item"
	}
	flavor := it.Flavor
	if flavor == "" {
		flavor = "unknown flavor"
	}
	tops := strings.Join(it.Toppings, ", ")
	if tops == "" {
		tops = "no toppings"
	}
	adds := strings.Join(it.Addons, ", ")
	if adds == "" {
		adds = "no add-ons"
	}
	sweet := it.Sweetness
	if sweet == "" {
		sweet = menu.DefaultSweetness
	}
	ice := it.Ice
	if ice == "" {
		ice = menu.DefaultIce
	}
	return fmt.Sprintf("%s | %s | %s | %s, %s", flavor, tops, adds, sweet, ice)
}

// resolveItem runs the full commit pipeline: canonicalize the flavor,
// resolve every topping and add-on token, enforce combination rules, apply
// defaults, and price the item. The input is not modified.
func resolveItem(staged Item) (Item, error) {
	flavor, ok := menu.ResolveFlavor(staged.Flavor)
	if !ok {
		return Item{}, validationErr(CodeUnknownFlavor,
			fmt.Sprintf("'%s' is not on the menu.", staged.Flavor),
			map[string]any{"flavor": staged.Flavor})
	}

	var tops []string
	for _, t := range staged.Toppings {
		if menu.Normalize(t) == "" {
			continue
		}
		m, ok := menu.ResolveTopping(t)
		if !ok {
			return Item{}, validationErr(CodeUnavailableTopping,
				fmt.Sprintf("Topping '%s' not available.", t),
				map[string]any{"topping": t})
		}
		tops = append(tops, m)
	}

	var adds []string
	for _, a := range staged.Addons {
		if menu.Normalize(a) == "" {
			continue
		}
		m, ok := menu.ResolveAddon(a)
		if !ok {
			return Item{}, validationErr(CodeUnavailableAddon,
				fmt.Sprintf("Add-on '%s' not available.", a),
				map[string]any{"addon": a})
		}
		adds = append(adds, m)
	}

	for _, a := range adds {
		required, ok := menu.RequiredTopping(a)
		if !ok {
			continue
		}
		found := false
		for _, t := range tops {
			if t == required {
				found = true
				break
			}
		}
		if !found {
			return Item{}, validationErr(CodeMissingRequiredTopping,
				fmt.Sprintf("'%s' requires the '%s' topping.", a, required),
				map[string]any{"addon": a, "required_topping": required})
		}
	}

	out := Item{
		Flavor:    flavor,
		Toppings:  tops,
		Sweetness: staged.Sweetness,
		Ice:       staged.Ice,
		Addons:    adds,
	}
	if out.Sweetness == "" {
		out.Sweetness = menu.DefaultSweetness
	}
	if out.Ice == "" {
		out.Ice = menu.DefaultIce
	}
	if out.Toppings == nil {
		out.Toppings = []string{}
	}
	if out.Addons == nil {
		out.Addons = []string{}
	}
	out.Price = priceItem(out)
	return out, nil
}

func priceItem(it Item) float64 {
	total := menu.DrinkPrice +
		float64(len(it.Toppings))*menu.ToppingPrice +
		float64(len(it.Addons))*menu.AddonPrice
	return roundCents(total)
}

func cartTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return roundCents(total)
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
