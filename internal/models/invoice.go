package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the settlement state of an invoice
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
)

// PaymentMethod represents the payment method used
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCredit       PaymentMethod = "credit"
)

// ClientType classifies invoices by the client's regular flag at creation time
type ClientType string

const (
	ClientTypeRegular    ClientType = "regular"
	ClientTypeNonRegular ClientType = "non-regular"
)

// PaymentStatuses lists the accepted payment statuses
var PaymentStatuses = []string{
	string(PaymentStatusPending),
	string(PaymentStatusPaid),
	string(PaymentStatusPartiallyPaid),
}

// PaymentMethods lists the accepted payment methods
var PaymentMethods = []string{
	string(PaymentMethodCash),
	string(PaymentMethodCard),
	string(PaymentMethodUPI),
	string(PaymentMethodBankTransfer),
	string(PaymentMethodCredit),
}

// ClientSnapshot is the denormalized copy of a client frozen onto an invoice
type ClientSnapshot struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	GSTNumber          string  `json:"gstNumber"`
	IsRegular          bool    `json:"isRegular"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// LineItem is a priced invoice line. It is immutable once the invoice is created,
// except through the explicit item operations of the invoice service.
type LineItem struct {
	ID              string  `json:"id" db:"id"`
	InvoiceID       string  `json:"-" db:"invoice_id"`
	CategoryID      string  `json:"categoryId" db:"category_id"`
	SubcategoryID   string  `json:"subcategoryId" db:"subcategory_id"`
	Name            string  `json:"name" db:"name"`
	Description     string  `json:"description" db:"description"`
	Quantity        int     `json:"quantity" db:"quantity"`
	Price           float64 `json:"price" db:"price"`
	Discount        float64 `json:"discount" db:"discount"`
	GST             float64 `json:"gst" db:"gst"`
	FinalAmount     float64 `json:"finalAmount" db:"final_amount"`
	CategoryName    string  `json:"categoryName" db:"category_name"`
	SubcategoryName string  `json:"subcategoryName" db:"subcategory_name"`
	Position        int     `json:"-" db:"position"`
}

// Gross returns price times quantity
func (li *LineItem) Gross() float64 {
	return li.Price * float64(li.Quantity)
}

// Invoice is a billed sale from a branch to a client
type Invoice struct {
	ID            string         `json:"id" db:"id"`
	InvoiceNumber string         `json:"invoiceNumber" db:"invoice_number"`
	Date          time.Time      `json:"date" db:"date"`
	CompanyID     string         `json:"companyId" db:"company_id"`
	BranchID      string         `json:"branchId" db:"branch_id"`
	ClientID      string         `json:"clientId" db:"client_id"`
	Client        ClientSnapshot `json:"client"`
	Items         []LineItem     `json:"items"`
	Subtotal      float64        `json:"subtotal" db:"subtotal"`
	TotalDiscount float64        `json:"totalDiscount" db:"total_discount"`
	TotalGST      float64        `json:"totalGst" db:"total_gst"`
	GrandTotal    float64        `json:"grandTotal" db:"grand_total"`
	PaymentStatus PaymentStatus  `json:"paymentStatus" db:"payment_status"`
	PaymentMethod PaymentMethod  `json:"paymentMethod" db:"payment_method"`
	ClientType    ClientType     `json:"clientType" db:"client_type"`
	CompanyGST    string         `json:"companyGST" db:"company_gst"`
	Notes         string         `json:"notes" db:"notes"`
	DueDate       *time.Time     `json:"dueDate,omitempty" db:"due_date"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
	DeletedAt     *time.Time     `json:"deletedAt,omitempty" db:"deleted_at"`
}

// NewInvoice creates a new invoice with generated ID, defaults and timestamps
func NewInvoice(companyID, branchID string, client *Client) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:            uuid.New().String(),
		Date:          now,
		CompanyID:     companyID,
		BranchID:      branchID,
		ClientID:      client.ID,
		Client:        client.Snapshot(),
		ClientType:    client.Type(),
		Items:         []LineItem{},
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: PaymentMethodCash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the invoice data
func (inv *Invoice) Validate() error {
	if inv.ID == "" {
		return fmt.Errorf("invoice ID is required")
	}
	if inv.CompanyID == "" || inv.BranchID == "" || inv.ClientID == "" {
		return fmt.Errorf("company, branch and client references are required")
	}
	if err := ValidateRequired(inv.InvoiceNumber, "invoiceNumber"); err != nil {
		return err
	}
	if inv.Date.IsZero() {
		return fmt.Errorf("invoice date is required")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("invoice must contain at least one item")
	}
	if err := ValidateEnum(string(inv.PaymentStatus), PaymentStatuses, "paymentStatus"); err != nil {
		return err
	}
	if err := ValidateEnum(string(inv.PaymentMethod), PaymentMethods, "paymentMethod"); err != nil {
		return err
	}
	for i, item := range inv.Items {
		if err := ValidatePositiveInteger(item.Quantity, fmt.Sprintf("items[%d].quantity", i)); err != nil {
			return err
		}
	}
	return nil
}

// IsDeleted reports whether the invoice has been soft deleted
func (inv *Invoice) IsDeleted() bool {
	return inv.DeletedAt != nil
}

// ItemCount returns the total quantity across line items, counting a missing quantity as one
func (inv *Invoice) ItemCount() int {
	total := 0
	for _, item := range inv.Items {
		if item.Quantity > 0 {
			total += item.Quantity
		} else {
			total++
		}
	}
	return total
}

// Item returns the line item with the given id
func (inv *Invoice) Item(id string) (*LineItem, bool) {
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			return &inv.Items[i], true
		}
	}
	return nil, false
}

// MarshalClientSnapshot returns the client snapshot as a JSON string for storage
func (inv *Invoice) MarshalClientSnapshot() (string, error) {
	data, err := json.Marshal(inv.Client)
	if err != nil {
		return "", fmt.Errorf("failed to marshal client snapshot: %w", err)
	}
	return string(data), nil
}

// UnmarshalClientSnapshot restores the client snapshot from its stored JSON form
func (inv *Invoice) UnmarshalClientSnapshot(raw string) error {
	if raw == "" {
		inv.Client = ClientSnapshot{ID: inv.ClientID}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &inv.Client); err != nil {
		return fmt.Errorf("failed to unmarshal client snapshot: %w", err)
	}
	return nil
}

// Touch updates the modification timestamp
func (inv *Invoice) Touch() {
	inv.UpdatedAt = time.Now()
}
