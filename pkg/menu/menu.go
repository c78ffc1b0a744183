// Package menu holds the drink menu, alias resolution for spoken topping and
// add-on names, and the combination rules checked when an item is committed.
package menu

import "strings"

var (
	Flavors  = []string{"taro milk tea", "black milk tea"}
	Toppings = []string{"boba", "egg pudding", "crystal agar boba", "vanilla cream"}
	Addons   = []string{"matcha stencil on top"}
)

const (
	DefaultSweetness = "50%"
	DefaultIce       = "regular ice"

	DrinkPrice   = 5.50
	ToppingPrice = 0.75
	AddonPrice   = 0.50
)

// Alias tables tolerate natural phrasing from the speech layer. Matching
// precedence is fixed: exact canonical, then alias-set membership, then
// substring containment in either direction.
var toppingAliases = map[string][]string{
	"boba":              {"boba", "tapioca", "tapioca pearls"},
	"egg pudding":       {"egg pudding", "pudding"},
	"crystal agar boba": {"crystal agar", "agar", "crystal agar boba"},
	"vanilla cream":     {"vanilla cream", "cream", "vanilla foam", "vanilla cold foam"},
}

var addonAliases = map[string][]string{
	"matcha stencil on top": {
		"matcha stencil", "matcha stencil on top", "matcha",
		"matcha art", "matcha design", "stencil", "matcha stencil top",
	},
}

// requiredToppings maps an add-on to a topping that must be present in the
// same drink. The matcha stencil is piped onto a cream layer, so it cannot
// be ordered without vanilla cream.
var requiredToppings = map[string]string{
	"matcha stencil on top": "vanilla cream",
}

// Normalize lowercases and trims a spoken token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveFlavor matches a token against the flavor list, case and
// whitespace insensitive. Flavors have no aliases.
func ResolveFlavor(token string) (string, bool) {
	n := Normalize(token)
	for _, f := range Flavors {
		if n == f {
			return f, true
		}
	}
	return "", false
}

// ResolveTopping resolves a spoken topping token to its canonical name.
func ResolveTopping(token string) (string, bool) {
	return resolve(token, Toppings, toppingAliases)
}

// ResolveAddon resolves a spoken add-on token to its canonical name.
func ResolveAddon(token string) (string, bool) {
	return resolve(token, Addons, addonAliases)
}

func resolve(token string, canonical []string, aliases map[string][]string) (string, bool) {
	n := Normalize(token)
	if n == "" {
		return "", false
	}
	for _, c := range canonical {
		if n == c {
			return c, true
		}
	}
	// iterate in canonical list order so ambiguous tokens resolve the same
	// way every time
	for _, c := range canonical {
		for _, a := range aliases[c] {
			if n == a {
				return c, true
			}
		}
	}
	for _, c := range canonical {
		for _, a := range aliases[c] {
			if strings.Contains(a, n) || strings.Contains(n, a) {
				return c, true
			}
		}
	}
	for _, c := range canonical {
		if strings.Contains(c, n) || strings.Contains(n, c) {
			return c, true
		}
	}
	return "", false
}

// RequiredTopping reports the topping an add-on depends on, if any.
func RequiredTopping(addon string) (string, bool) {
	t, ok := requiredToppings[addon]
	return t, ok
}

// Summary is read back to the caller by the agent when asked for the menu.
func Summary() map[string]any {
	return map[string]any{
		"summary": "We have Taro Milk Tea and Black Milk Tea. " +
			"Toppings: boba, egg pudding, crystal agar boba, vanilla cream. " +
			"Optional add-on: matcha stencil on top.",
		"flavors":  Flavors,
		"toppings": Toppings,
		"addons":   Addons,
	}
}
