// Package cart holds the shopper's pending line items, persisted as a single
// document so a session can resume where it left off.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
)

// StorageKey names the persisted cart document.
const StorageKey = "cart-items"

// Domain-level error values returned by the cart service.
var (
	ErrUnknownItem          = errors.New("unknown cart item")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// DocumentStore is the persistence contract used by Service: a blocking
// read/write of whole JSON documents keyed by name.
type DocumentStore interface {
	Load(ctx context.Context, key string) (document []byte, found bool, err error)
	Save(ctx context.Context, key string, document []byte) error
}

// Service manages the cart's line items over a DocumentStore.
type Service struct {
	store DocumentStore
}

// NewService wires a Service.
func NewService(store DocumentStore) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	return &Service{store: store}, nil
}

// Items returns the current line items in insertion order.
func (service *Service) Items(ctx context.Context) ([]catalog.CartItem, error) {
	return service.loadItems(ctx)
}

// AddItem puts one unit of the product in the cart, incrementing the quantity
// of an existing line for the same product.
func (service *Service) AddItem(ctx context.Context, product catalog.Product) error {
	items, err := service.loadItems(ctx)
	if err != nil {
		return err
	}
	for index := range items {
		if items[index].ID == product.ID {
			items[index].Quantity++
			return service.saveItems(ctx, items)
		}
	}
	item, err := catalog.NewCartItem(product, 1)
	if err != nil {
		return err
	}
	return service.saveItems(ctx, append(items, item))
}

// RemoveItem drops the line for a product. Removing an absent product is a
// no-op.
func (service *Service) RemoveItem(ctx context.Context, productID string) error {
	items, err := service.loadItems(ctx)
	if err != nil {
		return err
	}
	remaining := make([]catalog.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != productID {
			remaining = append(remaining, item)
		}
	}
	return service.saveItems(ctx, remaining)
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; quantity zero is never stored.
func (service *Service) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return service.RemoveItem(ctx, productID)
	}
	items, err := service.loadItems(ctx)
	if err != nil {
		return err
	}
	for index := range items {
		if items[index].ID == productID {
			items[index].Quantity = quantity
			return service.saveItems(ctx, items)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownItem, productID)
}

// Clear empties the cart, typically after a successful checkout.
func (service *Service) Clear(ctx context.Context) error {
	return service.saveItems(ctx, []catalog.CartItem{})
}

// Summary aggregates the current cart contents.
func (service *Service) Summary(ctx context.Context) (catalog.PurchaseSummary, error) {
	items, err := service.loadItems(ctx)
	if err != nil {
		return catalog.PurchaseSummary{}, err
	}
	return catalog.Summarize(items), nil
}

func (service *Service) loadItems(ctx context.Context) ([]catalog.CartItem, error) {
	document, found, err := service.store.Load(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []catalog.CartItem{}, nil
	}
	var items []catalog.CartItem
	if unmarshalErr := json.Unmarshal(document, &items); unmarshalErr != nil {
		return []catalog.CartItem{}, nil
	}
	// A stored line with zero quantity is malformed; drop it.
	valid := make([]catalog.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			valid = append(valid, item)
		}
	}
	return valid, nil
}

func (service *Service) saveItems(ctx context.Context, items []catalog.CartItem) error {
	document, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return service.store.Save(ctx, StorageKey, document)
}
