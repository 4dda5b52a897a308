package models

import "time"

// Report documents are computed on demand and never persisted.

// ReportWindow is a named period with its resolved bounds and revenue aggregate
type ReportWindow struct {
	Name         string    `json:"name"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Revenue      float64   `json:"revenue"`
	Count        int       `json:"count"`
	AverageValue float64   `json:"averageValue"`
}

// CategoryRevenue holds a category's revenue per reporting bucket
type CategoryRevenue struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
	Range   float64 `json:"range"`
}

// SubcategoryRevenue is the running revenue of one subcategory
type SubcategoryRevenue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// TopSubcategory points at the highest-earning subcategory of a category
type TopSubcategory struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// CategoryPerformance is the revenue breakdown of one catalog category
type CategoryPerformance struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	TotalRevenue   float64              `json:"totalRevenue"`
	Revenue        CategoryRevenue      `json:"revenue"`
	Subcategories  []SubcategoryRevenue `json:"subcategories"`
	TopSubcategory TopSubcategory       `json:"topSubcategory"`
}

// RankedSubcategory is an entry of the branch-wide subcategory ranking
type RankedSubcategory struct {
	Rank          int     `json:"rank"`
	SubcategoryID string  `json:"subcategoryId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CategoryID    string  `json:"categoryId"`
	Revenue       float64 `json:"revenue"`
}

// ClientInsights summarizes the clients behind a report's invoices
type ClientInsights struct {
	RegularClients                  int `json:"regularClients"`
	TotalClients                    int `json:"totalClients"`
	RegularClientsRevenuePercentage int `json:"regularClientsRevenuePercentage"`
	FilteredClients                 int `json:"filteredClients"`
}

// ClientSpend is a top-client entry of the revenue report
type ClientSpend struct {
	ClientID      string  `json:"clientId"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	TotalSpent    float64 `json:"totalSpent"`
	PurchaseCount int     `json:"purchaseCount"`
	AvgPurchase   float64 `json:"avgPurchase"`
}

// BranchInfo is the branch header of report documents
type BranchInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ManagerName string `json:"managerName,omitempty"`
	Location    string `json:"location,omitempty"`
	Phone       string `json:"phone,omitempty"`
	IsDefault   bool   `json:"isDefault"`
}

// ReportFiltersEcho echoes the resolved filters of a revenue report
type ReportFiltersEcho struct {
	ClientType    string  `json:"clientType"`
	DateRange     string  `json:"dateRange"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
	IsCustomRange bool    `json:"isCustomRange"`
	TotalDays     int     `json:"totalDays"`
}

// ReportSummary is the headline figures of a revenue report
type ReportSummary struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalInvoices   int     `json:"totalInvoices"`
	AvgInvoiceValue float64 `json:"avgInvoiceValue"`
	PeriodStart     string  `json:"periodStart"`
	PeriodEnd       string  `json:"periodEnd"`
	TotalDays       int     `json:"totalDays"`
}

// RevenueReport is the branch performance report
type RevenueReport struct {
	Branch              BranchInfo            `json:"branch"`
	RevenueSummary      []ReportWindow        `json:"revenueSummary"`
	CategoryPerformance []CategoryPerformance `json:"categoryPerformance"`
	TopSubcategories    []RankedSubcategory   `json:"topSubcategories"`
	ClientInsights      ClientInsights        `json:"clientInsights"`
	TopClients          []ClientSpend         `json:"topClients"`
	Recommendations     []string              `json:"recommendations"`
	Filters             ReportFiltersEcho     `json:"filters"`
	Summary             ReportSummary         `json:"summary"`
	Warnings            []string              `json:"warnings,omitempty"`
	GeneratedAt         time.Time             `json:"generatedAt"`
}

// SegmentStats aggregates one client segment
type SegmentStats struct {
	Count               int     `json:"count"`
	Revenue             float64 `json:"revenue"`
	Invoices            int     `json:"invoices"`
	Items               int     `json:"items"`
	AvgInvoiceValue     float64 `json:"avgInvoiceValue"`
	PercentageOfRevenue int     `json:"percentageOfRevenue"`
}

// ClientSegments holds the regular and non-regular segments
type ClientSegments struct {
	Regular    SegmentStats `json:"regular"`
	NonRegular SegmentStats `json:"nonRegular"`
}

// ClientStats is the running purchase history of a single client
type ClientStats struct {
	ClientID              string    `json:"clientId"`
	Name                  string    `json:"name"`
	IsRegular             bool      `json:"isRegular"`
	TotalSpent            float64   `json:"totalSpent"`
	InvoiceCount          int       `json:"invoiceCount"`
	ItemsPurchased        int       `json:"itemsPurchased"`
	FirstPurchaseDate     time.Time `json:"firstPurchaseDate"`
	LastPurchaseDate      time.Time `json:"lastPurchaseDate"`
	AvgSpendPerInvoice    float64   `json:"avgSpendPerInvoice"`
	DaysSinceLastPurchase int       `json:"daysSinceLastPurchase"`
}

// PortfolioSummary is the headline of the client segmentation
type PortfolioSummary struct {
	TotalClients            int     `json:"totalClients"`
	RegularClients          int     `json:"regularClients"`
	NonRegularClients       int     `json:"nonRegularClients"`
	RegularClientPercentage int     `json:"regularClientPercentage"`
	TotalRevenue            float64 `json:"totalRevenue"`
	RevenueFromRegular      float64 `json:"revenueFromRegular"`
	RevenueFromNonRegular   float64 `json:"revenueFromNonRegular"`
	AvgRevenuePerClient     float64 `json:"avgRevenuePerClient"`
	AvgRevenuePerRegular    float64 `json:"avgRevenuePerRegular"`
	AvgRevenuePerNonRegular float64 `json:"avgRevenuePerNonRegular"`
	TotalInvoices           int     `json:"totalInvoices"`
	TotalItemsSold          int     `json:"totalItemsSold"`
}

// Segmentation is the output of the client segmentation engine
type Segmentation struct {
	Summary    PortfolioSummary `json:"summary"`
	Segments   ClientSegments   `json:"segments"`
	TopClients []ClientStats    `json:"topClients"`
}

// PortfolioFiltersEcho echoes the filters of a portfolio request
type PortfolioFiltersEcho struct {
	ClientType string `json:"clientType"`
	DateRange  string `json:"dateRange"`
}

// ClientPortfolio is the branch client portfolio overview
type ClientPortfolio struct {
	Branch     BranchInfo           `json:"branch"`
	Filters    PortfolioFiltersEcho `json:"filters"`
	Summary    PortfolioSummary     `json:"summary"`
	Segments   ClientSegments       `json:"segments"`
	TopClients []ClientStats        `json:"topClients"`
}

// DailySales is one day of the sales report
type DailySales struct {
	Date         string  `json:"date"`
	TotalSales   float64 `json:"totalSales"`
	InvoiceCount int     `json:"invoiceCount"`
}

// ProductSales is one subcategory of the product report
type ProductSales struct {
	SubcategoryID   string  `json:"subcategoryId"`
	ProductName     string  `json:"productName"`
	CategoryName    string  `json:"categoryName"`
	SubcategoryName string  `json:"subcategoryName"`
	TotalQuantity   int     `json:"totalQuantity"`
	TotalAmount     float64 `json:"totalAmount"`
}

// SalesReport combines daily sales and product sales
type SalesReport struct {
	SalesReport   []DailySales   `json:"salesReport"`
	ProductReport []ProductSales `json:"productReport"`
}

// DetailedInvoiceItem is a line of the detailed invoice report
type DetailedInvoiceItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
	Discount float64 `json:"discount"`
	GST      float64 `json:"gst"`
}

// DetailedInvoiceRow is one invoice of the detailed invoice report
type DetailedInvoiceRow struct {
	InvoiceID     string                `json:"invoiceId"`
	InvoiceNumber string                `json:"invoiceNumber"`
	Date          time.Time             `json:"date"`
	Branch        string                `json:"branch"`
	Client        string                `json:"client"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	PaymentMethod PaymentMethod         `json:"paymentMethod"`
	Subtotal      float64               `json:"subtotal"`
	TotalDiscount float64               `json:"totalDiscount"`
	TotalGST      float64               `json:"totalGst"`
	GrandTotal    float64               `json:"grandTotal"`
	Items         []DetailedInvoiceItem `json:"items"`
	ItemCount     int                   `json:"itemCount"`
}

// DetailedReportSummary is the headline of the detailed invoice report
type DetailedReportSummary struct {
	TotalInvoices   int     `json:"totalInvoices"`
	TotalAmount     float64 `json:"totalAmount"`
	TotalItems      int     `json:"totalItems"`
	PaidInvoices    int     `json:"paidInvoices"`
	PendingInvoices int     `json:"pendingInvoices"`
}

// DetailedInvoiceReport lists invoices with their summary
type DetailedInvoiceReport struct {
	Success  bool                  `json:"success"`
	Summary  DetailedReportSummary `json:"summary"`
	Invoices []DetailedInvoiceRow  `json:"invoices"`
}

// InvoiceSummary is the company or branch invoice summary
type InvoiceSummary struct {
	TotalInvoices         int     `json:"totalInvoices"`
	TotalAmount           float64 `json:"totalAmount"`
	AvgInvoiceValue       float64 `json:"avgInvoiceValue"`
	PaidInvoices          int     `json:"paidInvoices"`
	PendingInvoices       int     `json:"pendingInvoices"`
	PartiallyPaidInvoices int     `json:"partiallyPaidInvoices"`
}

// PartyInfo is the company header of printed invoices
type PartyInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GSTNumber string `json:"gstNumber"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// InvoiceDetails is an invoice enriched with live company, branch and catalog names
type InvoiceDetails struct {
	*Invoice
	Company PartyInfo  `json:"company"`
	Branch  BranchInfo `json:"branch"`
}

// SubcategoryPrice is a catalog entry with the client's discounted price
type SubcategoryPrice struct {
	Subcategory
	DiscountedPrice float64 `json:"discountedPrice"`
}

// CategoryPrices is a category of a client price list
type CategoryPrices struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Subcategories []SubcategoryPrice `json:"subcategories"`
}

// BranchPrices is one branch of a client price list
type BranchPrices struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Location   string           `json:"location"`
	Categories []CategoryPrices `json:"categories"`
}

// ClientPriceList is a client with the prices they would pay at every branch
type ClientPriceList struct {
	Client   *Client        `json:"client"`
	Branches []BranchPrices `json:"branches"`
}

// HealthCheck is the body of GET /health. Services maps a dependency to "healthy" or its failure.
type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
