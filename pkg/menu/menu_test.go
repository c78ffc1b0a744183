package menu_test

import (
	"testing"

	"github.com/stillmatic/bobaline/pkg/menu"
)

func TestResolveFlavor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"taro milk tea", "taro milk tea", true},
		{"  Taro Milk Tea ", "taro milk tea", true},
		{"BLACK MILK TEA", "black milk tea", true},
		{"oolong milk tea", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := menu.ResolveFlavor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveFlavor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveTopping(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"boba", "boba", true},
		{"tapioca", "boba", true},
		{"tapioca pearls", "boba", true},
		{"pudding", "egg pudding", true},
		{"agar", "crystal agar boba", true},
		{"crystal agar", "crystal agar boba", true},
		{"vanilla cold foam", "vanilla cream", true},
		{"cream", "vanilla cream", true},
		// substring containment, either direction
		{"vanilla", "vanilla cream", true},
		{"egg pudding please", "egg pudding", true},
		{"grass jelly", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := menu.ResolveTopping(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveTopping(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveAddon(t *testing.T) {
	for _, in := range []string{"matcha stencil", "matcha", "stencil", "matcha art", "matcha stencil on top"} {
		got, ok := menu.ResolveAddon(in)
		if !ok || got != "matcha stencil on top" {
			t.Errorf("ResolveAddon(%q) = %q, %v", in, got, ok)
		}
	}
	if got, ok := menu.ResolveAddon("whipped cream"); ok {
		t.Errorf("ResolveAddon(%q) unexpectedly resolved to %q", "whipped cream", got)
	}
}

func TestRequiredTopping(t *testing.T) {
	top, ok := menu.RequiredTopping("matcha stencil on top")
	if !ok || top != "vanilla cream" {
		t.Fatalf("RequiredTopping = %q, %v; want vanilla cream, true", top, ok)
	}
	if _, ok := menu.RequiredTopping("boba"); ok {
		t.Fatal("boba should not require a topping")
	}
}
