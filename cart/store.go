// Package cart holds the per-session shopping cart. Every mutation is a
// read-modify-write of the whole persisted document, so the durable copy
// is consistent with memory before the call returns.
package cart

import (
	"context"
	"fmt"

	"brewhaus/docstore"
	"brewhaus/models"
)

type Store struct {
	docs docstore.Store
}

func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Get rehydrates the session cart. Missing or corrupt storage yields an
// empty cart, never an error.
func (s *Store) Get(ctx context.Context, sessionID string) models.Cart {
	var c models.Cart
	docstore.Load(ctx, s.docs, cartKey(sessionID), &c)
	return c
}

func (s *Store) persist(ctx context.Context, sessionID string, c models.Cart) error {
	if err := docstore.Save(ctx, s.docs, cartKey(sessionID), c); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// AddItem merges the item into the cart: an existing line for the same
// resolved id gains quantity, and its instructions are replaced by the
// newly supplied value (last write wins). A new item appends a line.
func (s *Store) AddItem(ctx context.Context, sessionID string, item models.CatalogItem, quantity int, instructions string) (models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	c := s.Get(ctx, sessionID)
	id := models.ResolveID(item, len(c.Lines))

	found := false
	for i := range c.Lines {
		if c.Lines[i].ItemID == id {
			c.Lines[i].Quantity += quantity
			c.Lines[i].SpecialInstructions = instructions
			found = true
			break
		}
	}
	if !found {
		c.Lines = append(c.Lines, models.CartLine{
			ItemID:              id,
			Item:                item,
			Quantity:            quantity,
			SpecialInstructions: instructions,
		})
	}
	return c, s.persist(ctx, sessionID, c)
}

// RemoveItem deletes the line for itemID. Removing an absent line is not
// an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID, itemID string) (models.Cart, error) {
	c := s.Get(ctx, sessionID)
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
	return c, s.persist(ctx, sessionID, c)
}

// SetQuantity sets the line to exactly quantity. Zero or below removes
// the line.
func (s *Store) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}
	c := s.Get(ctx, sessionID)
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			break
		}
	}
	return c, s.persist(ctx, sessionID, c)
}

// SetInstructions updates one line's special instructions in place.
func (s *Store) SetInstructions(ctx context.Context, sessionID, itemID, instructions string) (models.Cart, error) {
	c := s.Get(ctx, sessionID)
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].SpecialInstructions = instructions
			break
		}
	}
	return c, s.persist(ctx, sessionID, c)
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.persist(ctx, sessionID, models.Cart{})
}
