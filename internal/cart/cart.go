package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/models"
)

// LineItem binds a product snapshot to a quantity. Price, discount, name and
// image are captured at add time; later catalog edits do not touch them.
type LineItem struct {
	ProductID          int             `json:"productId"`
	Name               string          `json:"name"`
	ImageURL           string          `json:"imageUrl"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	DiscountPercentage *int            `json:"discountPercentage"`
	Quantity           int             `json:"quantity"`
}

// EffectivePrice is the unit price after the snapshot discount, if any.
func (li LineItem) EffectivePrice() decimal.Decimal {
	return models.DiscountedPrice(li.UnitPrice, li.DiscountPercentage)
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.EffectivePrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Summary is the read view handed to observers and API responses. Totals are
// recomputed from unit prices and quantities on every snapshot, never
// accumulated from rounded intermediates.
type Summary struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Observer is notified synchronously after every mutation, so badge, drawer
// and checkout readers always agree on the same cart state.
type Observer func(Summary)

// Cart is the session-scoped cart engine: an insertion-ordered mapping from
// product id to line item. Each product id appears at most once and stored
// quantities are always >= 1.
type Cart struct {
	mu        sync.Mutex
	items     map[int]*LineItem
	order     []int
	observers []Observer
}

func New() *Cart {
	return &Cart{items: make(map[int]*LineItem)}
}

// Subscribe registers an observer for subsequent mutations.
func (c *Cart) Subscribe(fn Observer) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Add increments the quantity when the product is already in the cart,
// otherwise inserts a new line item with quantity 1 snapshotting the
// product's current price, discount, name and image.
func (c *Cart) Add(p models.Product) {
	c.mu.Lock()
	if item, ok := c.items[p.ID]; ok {
		item.Quantity++
	} else {
		c.items[p.ID] = &LineItem{
			ProductID:          p.ID,
			Name:               p.Name,
			ImageURL:           p.ImageURL,
			UnitPrice:          p.Price,
			DiscountPercentage: p.DiscountPercentage,
			Quantity:           1,
		}
		c.order = append(c.order, p.ID)
	}
	c.notifyLocked()
	c.mu.Unlock()
}

// Remove deletes the line item; removing an absent product is a no-op.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	c.removeLocked(productID)
	c.notifyLocked()
	c.mu.Unlock()
}

// UpdateQuantity replaces the quantity of an existing line item. A quantity
// of zero or less removes the entry. Unknown product ids are a no-op.
func (c *Cart) UpdateQuantity(productID, quantity int) {
	c.mu.Lock()
	item, ok := c.items[productID]
	if !ok {
		c.mu.Unlock()
		return
	}
	if quantity <= 0 {
		c.removeLocked(productID)
	} else {
		item.Quantity = quantity
	}
	c.notifyLocked()
	c.mu.Unlock()
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = make(map[int]*LineItem)
	c.order = nil
	c.notifyLocked()
	c.mu.Unlock()
}

// Items returns the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

// Total is the sum over all line items of effective price times quantity,
// recomputed on every read.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// ItemCount is the sum of all line item quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLocked()
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Summary returns items, total and item count from one consistent view.
func (c *Cart) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

// Restore replaces the cart contents without notifying observers. Entries
// with quantity < 1 are dropped, duplicates keep the first occurrence.
func (c *Cart) Restore(items []LineItem) {
	c.mu.Lock()
	c.items = make(map[int]*LineItem, len(items))
	c.order = c.order[:0]
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if _, ok := c.items[it.ProductID]; ok {
			continue
		}
		item := it
		c.items[item.ProductID] = &item
		c.order = append(c.order, item.ProductID)
	}
	c.mu.Unlock()
}

func (c *Cart) removeLocked(productID int) {
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) itemsLocked() []LineItem {
	out := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

func (c *Cart) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.items[id].LineTotal())
	}
	return total
}

func (c *Cart) countLocked() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) summaryLocked() Summary {
	return Summary{
		Items:     c.itemsLocked(),
		Total:     c.totalLocked(),
		ItemCount: c.countLocked(),
	}
}

func (c *Cart) notifyLocked() {
	if len(c.observers) == 0 {
		return
	}
	s := c.summaryLocked()
	for _, fn := range c.observers {
		fn(s)
	}
}
