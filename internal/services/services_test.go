package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

func TestNewServiceContainer(t *testing.T) {
	_, err := NewServiceContainer(nil, nil)
	assert.Error(t, err)

	c, err := NewServiceContainer(newTestStore(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.InvoiceService)
	assert.NotNil(t, c.ReportService)
	assert.NotNil(t, c.CatalogService)
	assert.NotNil(t, c.ClientService)
	assert.NotNil(t, c.CompanyService)
}

func TestValidateRequest_FieldPaths(t *testing.T) {
	v := newValidator()
	qty := 1

	tests := []struct {
		name    string
		req     interface{}
		field   string
		message string
	}{
		{
			name:    "missing client",
			req:     &CreateInvoiceRequest{CompanyID: "c", BranchID: "b", Items: []billing.LineItemRequest{{CategoryID: "cat", SubcategoryID: "sub", Quantity: &qty}}},
			field:   "clientId",
			message: "clientId is required",
		},
		{
			name:    "unknown payment status",
			req:     &CreateInvoiceRequest{CompanyID: "c", BranchID: "b", ClientID: "x", PaymentStatus: "refunded"},
			field:   "paymentStatus",
			message: "paymentStatus must be one of: pending, paid, partially_paid",
		},
		{
			name:    "nested item field",
			req:     &CreateInvoiceRequest{CompanyID: "c", BranchID: "b", ClientID: "x", Items: []billing.LineItemRequest{{SubcategoryID: "sub", Quantity: &qty}}},
			field:   "items[0].categoryId",
			message: "items[0].categoryId is required",
		},
		{
			name:    "discount out of range",
			req:     &ClientRequest{Name: "Asha", Phone: "1", DiscountPercentage: 120},
			field:   "discountPercentage",
			message: "discountPercentage must be at most 100",
		},
		{
			name:    "bad email",
			req:     &CompanyRequest{Name: "A", GSTNumber: "G", Address: "X", OwnerName: "O", Email: "nope"},
			field:   "email",
			message: "email must be a valid email address",
		},
		{
			name:    "negative price",
			req:     &SubcategoryRequest{Name: "Men", Price: floatPtr(-1)},
			field:   "price",
			message: "price must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := requireCode(t, validateRequest(v, tt.req), KindValidation, CodeValidation)
			assert.Equal(t, tt.field, se.Field)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestFromPricing(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		kind  ErrorKind
		code  string
		field string
	}{
		{"category", &billing.ItemError{Index: 2, Err: billing.ErrCategoryNotFound}, KindNotFound, CodeCategoryNotFound, "items[2]"},
		{"subcategory", &billing.ItemError{Index: 0, Err: billing.ErrSubcategoryNotFound}, KindNotFound, CodeSubcategoryNotFound, "items[0]"},
		{"quantity", &billing.ItemError{Index: 1, Field: "quantity", Err: billing.ErrInvalidQuantity}, KindValidation, CodeInvalidQuantity, "items[1].quantity"},
		{"line item", &billing.ItemError{Index: 0, Field: "price", Err: billing.ErrInvalidLineItem}, KindValidation, CodeInvalidLineItem, "items[0].price"},
		{"empty", billing.ErrEmptyInvoice, KindValidation, CodeEmptyInvoice, "items"},
		{"filter", fmt.Errorf("%w: bad date", billing.ErrInvalidFilter), KindValidation, CodeInvalidFilter, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := requireCode(t, fromPricing(tt.err), tt.kind, tt.code)
			assert.Equal(t, tt.field, se.Field)
			assert.ErrorIs(t, se, tt.err)
		})
	}

	plain := errors.New("boom")
	assert.Same(t, plain, fromPricing(plain))
}

func TestFromRepository(t *testing.T) {
	assert.NoError(t, fromRepository(nil, CodeClientNotFound, "client"))

	requireCode(t, fromRepository(repositories.NotFoundError("client", "1"), CodeClientNotFound, "client"), KindNotFound, CodeClientNotFound)
	dup := requireCode(t, fromRepository(repositories.DuplicateError("company", "gst_number", "X"), CodeCompanyNotFound, "company"), KindConflict, CodeDuplicate)
	assert.Equal(t, "gstNumber", dup.Field)
	requireCode(t, fromRepository(repositories.ForeignKeyError("create", "invoice", "", errors.New("FOREIGN KEY constraint failed")), CodeInvoiceNotFound, "invoice"), KindValidation, CodeValidation)
	requireCode(t, fromRepository(repositories.ErrInvalidID, CodeClientNotFound, "client"), KindValidation, CodeValidation)

	invalidClient := (&models.Client{ID: "c1", CompanyID: "co1", Name: "Ravi", Phone: "98", DiscountPercentage: 120}).Validate()
	fieldErr := requireCode(t, fromRepository(repositories.ValidationError("client", "c1", invalidClient), CodeClientNotFound, "client"), KindValidation, CodeValidation)
	assert.Equal(t, "discountPercentage", fieldErr.Field)
	assert.Equal(t, "discountPercentage must be between 0 and 100", fieldErr.Message)

	se := requireCode(t, fromRepository(errors.New("disk full"), CodeClientNotFound, "client"), KindUpstream, CodeUpstream)
	assert.Contains(t, se.Error(), "disk full")

	own := invalid(CodeLastItem, "itemId", "cannot remove the last item")
	assert.Same(t, own, fromRepository(own, CodeItemNotFound, "item"))
	assert.True(t, IsKind(own, KindValidation))
}
