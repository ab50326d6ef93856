// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal Купленная lifetime-сделка
type Deal struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Marketplace    string          `json:"marketplace"`
	Price          decimal.Decimal `json:"price"`
	PurchaseDate   string          `json:"purchaseDate"`
	RefundWindow   int             `json:"refundWindow"`
	RefundDeadline string          `json:"refundDeadline"`
	ExpiryDate     *string         `json:"expiryDate,omitempty"`
	Category       string          `json:"category"`
	Status         string          `json:"status"`
	Favorite       bool            `json:"favorite"`
	Description    string          `json:"description,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DealList Результат выборки
type DealList struct {
	Items []Deal `json:"items"`

	// Total Число сделок в коллекции до фильтрации
	Total int `json:"total"`
}

// CreateDealRequest Данные новой сделки. Поля проверяются хранилищем.
type CreateDealRequest struct {
	Name         string           `json:"name"`
	Marketplace  string           `json:"marketplace"`
	Price        *decimal.Decimal `json:"price"`
	PurchaseDate string           `json:"purchaseDate"`
	RefundWindow *int             `json:"refundWindow,omitempty"`
	ExpiryDate   string           `json:"expiryDate,omitempty"`
	Category     string           `json:"category"`
	Status       string           `json:"status,omitempty"`
	Favorite     bool             `json:"favorite,omitempty"`
	Description  string           `json:"description,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// UpdateDealRequest Частичное обновление. Пустая строка в expiryDate снимает срок действия.
type UpdateDealRequest struct {
	Name         *string          `json:"name,omitempty"`
	Marketplace  *string          `json:"marketplace,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PurchaseDate *string          `json:"purchaseDate,omitempty"`
	RefundWindow *int             `json:"refundWindow,omitempty"`
	ExpiryDate   *string          `json:"expiryDate,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Favorite     *bool            `json:"favorite,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// Stats Сводка по коллекции
type Stats struct {
	Total           int             `json:"total"`
	Active          int             `json:"active"`
	Refundable      int             `json:"refundable"`
	ExpiringSoon    int             `json:"expiringSoon"`
	Favorites       int             `json:"favorites"`
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
}

// UpcomingRefund Сделка с приближающимся сроком возврата
type UpcomingRefund struct {
	Deal     Deal `json:"deal"`
	DaysLeft int  `json:"daysLeft"`
	Urgent   bool `json:"urgent"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`

	// Fields Сообщения по полям запроса
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorCode Код ошибки
type ErrorCode string
