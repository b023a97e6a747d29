package loot

import (
	"fmt"
	"strings"
)

// ItemKind tags every collectible the core knows about.
type ItemKind uint8

const (
	Wood ItemKind = iota
	Nails
	Scrap
	Food
	Water
	Ammo
	Medkit
	ItemKindCount
)

var itemKindNames = [ItemKindCount]string{
	Wood:   "wood",
	Nails:  "nails",
	Scrap:  "scrap",
	Food:   "food",
	Water:  "water",
	Ammo:   "ammo",
	Medkit: "medkit",
}

func (k ItemKind) String() string {
	if k >= ItemKindCount {
		return "unknown"
	}
	return itemKindNames[k]
}

func (k ItemKind) Valid() bool {
	return k < ItemKindCount
}

// ParseItemKind maps a tuning name to its kind. Matching ignores case.
func ParseItemKind(name string) (ItemKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range itemKindNames {
		if n == name {
			return ItemKind(k), nil
		}
	}
	return 0, fmt.Errorf("loot: unknown item kind %q", name)
}

// Item is a quantity of one kind.
type Item struct {
	Kind     ItemKind
	Quantity int
}

func (i Item) String() string {
	return fmt.Sprintf("%dx%s", i.Quantity, i.Kind)
}

// Counts is an inventory keyed by kind.
type Counts [ItemKindCount]int

func (c *Counts) Add(item Item) {
	if !item.Kind.Valid() || item.Quantity <= 0 {
		return
	}
	c[item.Kind] += item.Quantity
}

// Take removes n of kind if at least n are held.
func (c *Counts) Take(kind ItemKind, n int) bool {
	if !kind.Valid() || n <= 0 || c[kind] < n {
		return false
	}
	c[kind] -= n
	return true
}

func (c *Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
