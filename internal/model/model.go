package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

type Actor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int       `json:"priceCents"`
	Unit        string    `json:"unit,omitempty"` // "each", "kg", "bunch", ...
	Description string    `json:"description,omitempty"`
	ImagePath   string    `json:"imagePath,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderPacked    OrderStatus = "packed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderLine struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int    `json:"priceCents"` // unit price captured at order time
}

type Order struct {
	ID        string      `json:"id"`
	Customer  string      `json:"customer"`
	Lines     []OrderLine `json:"lines"`
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TotalCents sums line totals. Lines carry the unit price at order time, so
// later catalog price edits never change historical totals.
func (o Order) TotalCents() int {
	total := 0
	for _, l := range o.Lines {
		total += l.PriceCents * l.Quantity
	}
	return total
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"` // 1..5
	Body      string    `json:"body,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

// Theme is the storefront theme record. Each field is independently editable;
// defaults fill in any field the store doesn't have, so a loaded Theme is
// never partially populated.
type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	HeadingFont     string `json:"headingFont"`
	BodyFont        string `json:"bodyFont"`
	CardRadius      int    `json:"cardRadius"`
	ButtonRadius    int    `json:"buttonRadius"`
}

type ChatRule struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
	Reply    string   `json:"reply"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	ActorID  string    `json:"actorId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
