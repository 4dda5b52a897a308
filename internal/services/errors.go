package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

// ErrorKind classifies service failures for the transport layer
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindUpstream   ErrorKind = "upstream"
)

// Error codes returned to API clients
const (
	CodeCompanyNotFound       = "COMPANY_NOT_FOUND"
	CodeBranchNotFound        = "BRANCH_NOT_FOUND"
	CodeClientNotFound        = "CLIENT_NOT_FOUND"
	CodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	CodeSubcategoryNotFound   = "SUBCATEGORY_NOT_FOUND"
	CodeInvoiceNotFound       = "INVOICE_NOT_FOUND"
	CodeItemNotFound          = "ITEM_NOT_FOUND"
	CodeReportNotFound        = "REPORT_NOT_FOUND"
	CodeValidation            = "VALIDATION_ERROR"
	CodeEmptyInvoice          = "EMPTY_INVOICE"
	CodeInvalidQuantity       = "INVALID_QUANTITY"
	CodeInvalidLineItem       = "INVALID_LINE_ITEM"
	CodeInvalidFilter         = "INVALID_FILTER"
	CodeInvoiceNumberConflict = "INVOICE_NUMBER_CONFLICT"
	CodeLastItem              = "LAST_ITEM"
	CodeImportInvalid         = "IMPORT_INVALID"
	CodeDuplicate             = "DUPLICATE"
	CodeUpstream              = "UPSTREAM"
)

// ServiceError is the error type every service operation returns
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Field   string
	// Details lists individual problems when one request fails in several places
	Details []string
	Err     error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Err != nil && e.Kind == KindUpstream {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func notFound(code, message string, err error) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: code, Message: message, Err: err}
}

func invalid(code, field, message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

func conflict(code, message string, err error) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: code, Message: message, Err: err}
}

func upstream(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindUpstream, Code: CodeUpstream, Message: message, Err: err}
}

// AsServiceError extracts a ServiceError from err
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	se, ok := AsServiceError(err)
	return ok && se.Kind == kind
}

// fromRepository translates a repository failure. notFoundCode is used for missing
// or soft-deleted rows.
func fromRepository(err error, notFoundCode, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsServiceError(err); ok {
		return err
	}
	switch {
	case repositories.IsNotFound(err):
		return notFound(notFoundCode, fmt.Sprintf("%s not found", entity), err)
	case repositories.IsDuplicate(err):
		se := conflict(CodeDuplicate, err.Error(), err)
		se.Field = camelField(repositories.ConflictField(err))
		return se
	case repositories.IsForeignKey(err):
		return &ServiceError{Kind: KindValidation, Code: CodeValidation, Message: err.Error(), Err: err}
	case repositories.IsValidation(err), errors.Is(err, repositories.ErrInvalidID):
		se := &ServiceError{Kind: KindValidation, Code: CodeValidation, Message: err.Error(), Err: err}
		var fieldErr *models.ValidationError
		if errors.As(err, &fieldErr) {
			se.Field, se.Message = fieldErr.Field, fieldErr.Message
		}
		return se
	default:
		return upstream(fmt.Sprintf("failed to access %s", entity), err)
	}
}

// camelField turns a column name such as gst_number into its JSON field name
func camelField(column string) string {
	parts := strings.Split(column, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// fromPricing translates billing engine failures raised while building line items
func fromPricing(err error) error {
	var itemErr *billing.ItemError
	field := ""
	if errors.As(err, &itemErr) {
		field = fmt.Sprintf("items[%d]", itemErr.Index)
		if itemErr.Field != "" {
			field += "." + itemErr.Field
		}
	}

	switch {
	case errors.Is(err, billing.ErrCategoryNotFound):
		return &ServiceError{Kind: KindNotFound, Code: CodeCategoryNotFound, Field: field, Message: err.Error(), Err: err}
	case errors.Is(err, billing.ErrSubcategoryNotFound):
		return &ServiceError{Kind: KindNotFound, Code: CodeSubcategoryNotFound, Field: field, Message: err.Error(), Err: err}
	case errors.Is(err, billing.ErrInvalidQuantity):
		return &ServiceError{Kind: KindValidation, Code: CodeInvalidQuantity, Field: field, Message: err.Error(), Err: err}
	case errors.Is(err, billing.ErrInvalidLineItem):
		return &ServiceError{Kind: KindValidation, Code: CodeInvalidLineItem, Field: field, Message: err.Error(), Err: err}
	case errors.Is(err, billing.ErrEmptyInvoice):
		return &ServiceError{Kind: KindValidation, Code: CodeEmptyInvoice, Field: "items", Message: err.Error(), Err: err}
	case errors.Is(err, billing.ErrInvalidFilter):
		return &ServiceError{Kind: KindValidation, Code: CodeInvalidFilter, Message: err.Error(), Err: err}
	default:
		return err
	}
}
