package bridge

import "github.com/stillmatic/bobaline/pkg/agent"

func stringProp(desc string) agent.Property {
	return agent.Property{Type: "string", Description: desc}
}

func stringListProp(desc string) agent.Property {
	return agent.Property{Type: "array", Description: desc, Items: &agent.Property{Type: "string"}}
}

func intProp(desc string, min int) agent.Property {
	return agent.Property{Type: "integer", Description: desc, Minimum: &min}
}

// Definitions lists every tool the agent may call during a session. The
// names must match the Dispatch handler table exactly.
func Definitions() []agent.FunctionDef {
	return []agent.FunctionDef{
		{
			Name:        "menu_summary",
			Description: "Get the menu: flavors, toppings, add-ons, and prices.",
			Parameters:  agent.Schema{Type: "object", Properties: map[string]agent.Property{}},
		},
		{
			Name:        "add_to_cart",
			Description: "Stage a new drink before adding it to the cart. Nothing is added until confirm_pending_to_cart.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"flavor":    stringProp("Drink flavor, e.g. taro or jasmine green"),
					"toppings":  stringListProp("Toppings for the drink"),
					"sweetness": stringProp("Sweetness level, e.g. 50% or less sweet"),
					"ice":       stringProp("Ice level, e.g. regular ice or no ice"),
					"addons":    stringListProp("Add-ons for the drink"),
				},
				Required: []string{"flavor"},
			},
		},
		{
			Name:        "update_pending_item",
			Description: "Change fields on the staged drink. Only provided fields change; toppings and addons replace wholesale.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"flavor":    stringProp("New flavor"),
					"toppings":  stringListProp("Replacement topping list"),
					"sweetness": stringProp("New sweetness level"),
					"ice":       stringProp("New ice level"),
					"addons":    stringListProp("Replacement add-on list"),
				},
			},
		},
		{
			Name:        "confirm_pending_to_cart",
			Description: "Validate the staged drink and add it to the cart. Call after the customer confirms the drink.",
			Parameters:  agent.Schema{Type: "object", Properties: map[string]agent.Property{}},
		},
		{
			Name:        "clear_pending_item",
			Description: "Discard the staged drink without adding it to the cart.",
			Parameters:  agent.Schema{Type: "object", Properties: map[string]agent.Property{}},
		},
		{
			Name:        "get_cart",
			Description: "List the drinks currently in the cart with the running total.",
			Parameters:  agent.Schema{Type: "object", Properties: map[string]agent.Property{}},
		},
		{
			Name:        "order_is_placed",
			Description: "Check whether an order number has already been generated for this call.",
			Parameters:  agent.Schema{Type: "object", Properties: map[string]agent.Property{}},
		},
		{
			Name:        "remove_from_cart",
			Description: "Remove a drink from the cart by zero-based index.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"index": intProp("Zero-based cart index of the drink to remove", 0),
				},
				Required: []string{"index"},
			},
		},
		{
			Name:        "modify_cart_item",
			Description: "Change fields on a drink already in the cart. Only provided fields change.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"index":     intProp("Zero-based cart index of the drink to modify", 0),
					"flavor":    stringProp("New flavor"),
					"toppings":  stringListProp("Replacement topping list"),
					"sweetness": stringProp("New sweetness level"),
					"ice":       stringProp("New ice level"),
					"addons":    stringListProp("Replacement add-on list"),
				},
				Required: []string{"index"},
			},
		},
		{
			Name:        "set_sweetness_ice",
			Description: "Set sweetness and ice on a cart drink, or on the staged drink when no index is given.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"index":     intProp("Zero-based cart index; omit to target the staged drink", 0),
					"sweetness": stringProp("Sweetness level"),
					"ice":       stringProp("Ice level"),
				},
			},
		},
		{
			Name:        "checkout_order",
			Description: "Generate an order number for the cart. Call once the customer is done ordering.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"phone": stringProp("Customer callback phone number, if already collected"),
				},
			},
		},
		{
			Name:        "order_status",
			Description: "Look up the status of a previously placed order by order number or phone.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"order_number": stringProp("Four-digit order number"),
					"phone":        stringProp("Phone number the order was placed under"),
				},
			},
		},
		{
			Name:        "extract_phone_and_order",
			Description: "Extract a phone number and four-digit order number from free-form text.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"text": stringProp("Text to scan"),
				},
				Required: []string{"text"},
			},
		},
		{
			Name:        "save_phone_number",
			Description: "Save the customer's callback phone number for this call.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"phone": stringProp("Phone number as spoken or typed"),
				},
				Required: []string{"phone"},
			},
		},
		{
			Name:        "confirm_phone",
			Description: "Record whether the customer confirmed the phone number read back to them.",
			Parameters: agent.Schema{
				Type: "object",
				Properties: map[string]agent.Property{
					"confirmed": {Type: "boolean", Description: "True if the customer confirmed the number"},
				},
				Required: []string{"confirmed"},
			},
		},
	}
}
