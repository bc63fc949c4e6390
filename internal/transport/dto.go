package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shopcart/internal/models"
)

// CartLine.Product is nil when the catalog could not resolve the id.
type CartLine struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  uint            `json:"quantity"`
	Product   *models.Product `json:"product"`
}

type CartView struct {
	Items       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func EmptyCartView() *CartView {
	return &CartView{Items: []CartLine{}, TotalAmount: decimal.Zero}
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
}

type PlaceOrderResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

type ProductFilter struct {
	Category  string
	MinRating *float64
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Search    string
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Rating      float64         `json:"rating"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest carries the ID token issued by Google Sign-In.
type GoogleAuthRequest struct {
	Credential string `json:"credential"`
}

// GoogleIdentity holds the claims of a verified Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}
