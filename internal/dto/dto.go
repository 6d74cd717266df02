package dto

import (
	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
)

type QuoteRequest struct {
	FlavorID   string   `json:"flavor_id"`
	SizeID     string   `json:"size_id"`
	FillingID  *string  `json:"filling_id,omitempty"`
	ToppingIDs []string `json:"topping_ids,omitempty"`
}

type QuoteResponse struct {
	UnitPrice string `json:"unit_price"`
}

type AddLineRequest struct {
	Kind string `json:"kind"` // catalog | custom

	// catalog kind
	ProductID string `json:"product_id,omitempty"`

	// custom kind
	FlavorID   string   `json:"flavor_id,omitempty"`
	SizeID     string   `json:"size_id,omitempty"`
	FillingID  *string  `json:"filling_id,omitempty"`
	ToppingIDs []string `json:"topping_ids,omitempty"`

	Quantity int `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ID         uint     `json:"id"`
	Kind       string   `json:"kind"`
	ProductID  *string  `json:"product_id,omitempty"`
	FlavorID   *string  `json:"flavor_id,omitempty"`
	SizeID     *string  `json:"size_id,omitempty"`
	FillingID  *string  `json:"filling_id,omitempty"`
	ToppingIDs []string `json:"topping_ids,omitempty"`
	Quantity   int      `json:"quantity"`
	UnitPrice  string   `json:"unit_price"`
	Subtotal   string   `json:"subtotal"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

func NewCartResponse(cart *model.Cart) *CartResponse {
	lines := make([]CartLineResponse, len(cart.Lines))
	for i, line := range cart.Lines {
		toppingIDs := make([]string, len(line.Toppings))
		for j, t := range line.Toppings {
			toppingIDs[j] = t.ToppingID
		}
		lines[i] = CartLineResponse{
			ID:         line.ID,
			Kind:       string(line.Kind),
			ProductID:  line.ProductID,
			FlavorID:   line.FlavorID,
			SizeID:     line.SizeID,
			FillingID:  line.FillingID,
			ToppingIDs: toppingIDs,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice.StringFixed(2),
			Subtotal:   line.Subtotal.StringFixed(2),
		}
	}
	return &CartResponse{
		Lines: lines,
		Total: cart.Total.StringFixed(2),
	}
}

type CheckoutRequest struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"` // card | paypal | cash
	RedeemPoints  int64  `json:"redeem_points,omitempty"`
	CardNonce     string `json:"card_nonce,omitempty"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Total       string `json:"total"`
	Status      string `json:"status"`
	ApprovalURL string `json:"approval_url,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type ChangeStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type OrderLineResponse struct {
	Kind        string `json:"kind"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type StatusHistoryResponse struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	Notes     string `json:"notes,omitempty"`
	ChangedAt string `json:"changed_at"`
}

type OrderResponse struct {
	OrderID       string              `json:"order_id"`
	Status        string              `json:"status"`
	Total         string              `json:"total"`
	Currency      string              `json:"currency"`
	PaymentMethod string              `json:"payment_method"`
	Paid          bool                `json:"paid"`
	Lines         []OrderLineResponse `json:"lines"`
}

func NewOrderResponse(order *model.Order, paid bool) *OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			Kind:        string(line.Kind),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
		}
	}
	return &OrderResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		Total:         order.Total.StringFixed(2),
		Currency:      order.Currency,
		PaymentMethod: string(order.PaymentMethod),
		Paid:          paid,
		Lines:         lines,
	}
}

type CaptureRequest struct {
	OrderID               string `json:"order_id"`
	PaymentType           string `json:"payment_type"`
	ExternalTransactionID string `json:"external_transaction_id"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Succeeded             bool   `json:"succeeded"`
}

type EarnPointsRequest struct {
	Points    int64   `json:"points"`
	OrderID   *string `json:"order_id,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"` // RFC 3339
}

type RedeemPointsRequest struct {
	Points int64 `json:"points"`
}

type PointsBalanceResponse struct {
	Balance int64 `json:"balance"`
}

// Selection converts the wire shape into the tagged variant the services
// switch over.
func (r *AddLineRequest) Selection() (domain.Selection, error) {
	switch model.LineKind(r.Kind) {
	case model.LineKindCatalog:
		return domain.CatalogSelection{ProductID: r.ProductID}, nil
	case model.LineKindCustom:
		return domain.CustomSelection{
			FlavorID:   r.FlavorID,
			SizeID:     r.SizeID,
			FillingID:  r.FillingID,
			ToppingIDs: r.ToppingIDs,
		}, nil
	}
	return nil, domain.ErrUnknownLineKind
}
