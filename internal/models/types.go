package models

const (
	// DefaultBranchCodeFiller pads branch names shorter than three letters
	DefaultBranchCodeFiller = 'X'

	// InvoiceNumberDigits is the zero-padded width of the invoice sequence
	InvoiceNumberDigits = 5

	// UnknownName is shown in reports when a referenced record no longer resolves
	UnknownName = "Unknown"

	// UncategorizedName labels detailed report lines that carry no category name
	UncategorizedName = "Uncategorized"
)
