package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

const (
	reportDayLayout   = "2006-01-02"
	reportArchiveRoot = "reports"
)

// ReportOptions sizes the ranked sections of reports
type ReportOptions struct {
	TopSubcategories int
	TopClients       int
	TopSpenders      int
}

// DefaultReportOptions returns the standard report sizes
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		TopSubcategories: billing.DefaultTopSubcategories,
		TopClients:       billing.DefaultTopClients,
		TopSpenders:      billing.DefaultTopSpenders,
	}
}

// reportService implements the ReportService interface
type reportService struct {
	store     Store
	scope     scope
	files     storage.FileStorage
	opts      ReportOptions
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

// NewReportService creates a new report service instance. files may be nil, in which
// case archiving is unavailable.
func NewReportService(store Store, files storage.FileStorage, opts ReportOptions, logger *logrus.Logger) ReportService {
	defaults := DefaultReportOptions()
	if opts.TopSubcategories <= 0 {
		opts.TopSubcategories = defaults.TopSubcategories
	}
	if opts.TopClients <= 0 {
		opts.TopClients = defaults.TopClients
	}
	if opts.TopSpenders <= 0 {
		opts.TopSpenders = defaults.TopSpenders
	}
	return &reportService{
		store:     store,
		scope:     scope{store: store},
		files:     files,
		opts:      opts,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateRevenueReport builds the branch performance report. Every section is computed
// from one invoice fetch so the sections agree with each other.
func (s *reportService) GenerateRevenueReport(ctx context.Context, companyID, branchID string, filters *ReportFilters) (*models.RevenueReport, error) {
	if filters == nil {
		filters = &ReportFilters{}
	}
	if err := validateRequest(s.validator, filters); err != nil {
		return nil, err
	}
	clientFilter := filters.ClientType
	if clientFilter == "" {
		clientFilter = billing.ClientFilterAll
	}

	now := s.now()
	rng, err := billing.ResolveReportRange(now, filters.DateRange, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, fromPricing(err)
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}

	standard := billing.StandardWindows(now)
	windows := append(append([]billing.Window{}, standard...), rng.Window)
	span := billing.Span("snapshot", windows...)

	fetched, err := s.store.Invoices().List(ctx, repositories.InvoiceFilters{
		CompanyID: companyID,
		BranchID:  branch.ID,
		From:      &span.Start,
		To:        &span.End,
	})
	if err != nil {
		return nil, upstream("failed to load invoices", err)
	}

	snapshot := make([]models.Invoice, 0, len(fetched))
	for _, inv := range fetched {
		if billing.MatchesClientFilter(inv, clientFilter) {
			snapshot = append(snapshot, *inv)
		}
	}
	inRange := billing.FilterInvoices(snapshot, rng.Window)

	report := &models.RevenueReport{
		Branch:      branchInfo(branch),
		GeneratedAt: now,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.RevenueSummary = billing.BucketRevenue(snapshot, windows)
		return nil
	})
	g.Go(func() error {
		breakdown := billing.AggregateCategories(branch, snapshot, billing.ReportCategoryWindows(standard, rng.Window), s.opts.TopSubcategories)
		report.CategoryPerformance = breakdown.Categories
		report.TopSubcategories = breakdown.TopSubcategories
		return nil
	})
	// Client rankings and shares follow current client records. When those cannot be
	// loaded the report falls back to invoice snapshots and drops the insights section.
	var (
		live            billing.ClientIndex
		insightsWarning string
	)
	g.Go(func() error {
		clients, err := s.store.Clients().List(gctx, repositories.ClientFilters{
			CompanyID:      companyID,
			IDs:            billing.InvoicedClientIDs(inRange),
			IncludeDeleted: true,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.logger.WithError(err).WithField("branch_id", branch.ID).Warn("client insights unavailable")
			insightsWarning = "client insights unavailable: failed to load clients"
		} else {
			records := clientValues(clients)
			live = billing.IndexClients(records)
			report.ClientInsights = billing.BuildClientInsights(records, inRange, clientFilter)
		}
		report.TopClients = billing.RankClientSpend(inRange, live, s.opts.TopSpenders)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, upstream("failed to generate report", err)
	}
	if insightsWarning != "" {
		report.Warnings = append(report.Warnings, insightsWarning)
	}

	regularPct := billing.RegularRevenuePercentage(inRange, live)
	report.Recommendations = billing.Recommendations(regularPct, clientFilter, report.TopSubcategories, report.CategoryPerformance)

	totalDays := billing.TotalDays(rng.Window)
	report.Filters = models.ReportFiltersEcho{
		ClientType:    clientFilter,
		DateRange:     rng.Label,
		IsCustomRange: rng.IsCustom,
		TotalDays:     totalDays,
	}
	if rng.IsCustom {
		start := rng.Start.Format(reportDayLayout)
		end := rng.End.Format(reportDayLayout)
		report.Filters.StartDate = &start
		report.Filters.EndDate = &end
	}

	selected := billing.BucketRevenue(inRange, []billing.Window{rng.Window})[0]
	report.Summary = models.ReportSummary{
		TotalRevenue:    selected.Revenue,
		TotalInvoices:   selected.Count,
		AvgInvoiceValue: selected.AverageValue,
		PeriodStart:     rng.Start.Format(reportDayLayout),
		PeriodEnd:       rng.End.Format(reportDayLayout),
		TotalDays:       totalDays,
	}

	s.logger.WithFields(logrus.Fields{
		"branch_id":   branch.ID,
		"date_range":  rng.Label,
		"client_type": clientFilter,
		"invoices":    len(inRange),
	}).Info("report generated")

	return report, nil
}

// GetClientPortfolio segments the company's clients by their invoices at one branch
func (s *reportService) GetClientPortfolio(ctx context.Context, companyID, branchID string, filters *PortfolioFilters) (*models.ClientPortfolio, error) {
	if filters == nil {
		filters = &PortfolioFilters{}
	}
	if err := validateRequest(s.validator, filters); err != nil {
		return nil, err
	}
	clientFilter := filters.ClientType
	if clientFilter == "" {
		clientFilter = billing.ClientFilterAll
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rng := billing.ResolvePortfolioRange(now, filters.DateRange)

	clientFilters := repositories.ClientFilters{CompanyID: companyID}
	switch clientFilter {
	case billing.ClientFilterRegular:
		regular := true
		clientFilters.IsRegular = &regular
	case billing.ClientFilterNonRegular:
		regular := false
		clientFilters.IsRegular = &regular
	}
	clients, err := s.store.Clients().List(ctx, clientFilters)
	if err != nil {
		return nil, upstream("failed to load clients", err)
	}

	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	invoiceFilters := repositories.InvoiceFilters{CompanyID: companyID, BranchID: branch.ID, ClientIDs: ids}
	if !rng.Unbounded {
		invoiceFilters.From = &rng.Start
		invoiceFilters.To = &rng.End
	}
	invoices, err := s.store.Invoices().List(ctx, invoiceFilters)
	if err != nil {
		return nil, upstream("failed to load invoices", err)
	}

	seg := billing.SegmentClients(clientValues(clients), values(invoices), now, s.opts.TopClients)
	return &models.ClientPortfolio{
		Branch:     models.BranchInfo{ID: branch.ID, Name: branch.Name, IsDefault: branch.IsDefault},
		Filters:    models.PortfolioFiltersEcho{ClientType: clientFilter, DateRange: rng.Label},
		Summary:    seg.Summary,
		Segments:   seg.Segments,
		TopClients: seg.TopClients,
	}, nil
}

// GetSalesReport groups company sales by day and by product
func (s *reportService) GetSalesReport(ctx context.Context, companyID string, from, to *time.Time) (*models.SalesReport, error) {
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, invalid(CodeInvalidFilter, "to", "to must not be before from")
	}

	invoices, err := s.store.Invoices().List(ctx, repositories.InvoiceFilters{CompanyID: companyID, From: from, To: to})
	if err != nil {
		return nil, upstream("failed to load invoices", err)
	}
	list := values(invoices)
	return &models.SalesReport{
		SalesReport:   billing.SalesByDay(list),
		ProductReport: billing.SalesByProduct(list),
	}, nil
}

// GetDetailedInvoiceReport lists company invoices with their lines, newest first
func (s *reportService) GetDetailedInvoiceReport(ctx context.Context, companyID string, filters *DetailedReportFilters) (*models.DetailedInvoiceReport, error) {
	if filters == nil {
		filters = &DetailedReportFilters{}
	}
	if err := validateRequest(s.validator, filters); err != nil {
		return nil, err
	}
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}

	invoiceFilters := repositories.InvoiceFilters{
		CompanyID:     companyID,
		BranchID:      filters.BranchID,
		From:          filters.From,
		To:            filters.To,
		PaymentStatus: filters.PaymentStatus,
	}
	if filters.ClientID != "" {
		invoiceFilters.ClientIDs = []string{filters.ClientID}
	}
	invoices, err := s.store.Invoices().List(ctx, invoiceFilters)
	if err != nil {
		return nil, upstream("failed to load invoices", err)
	}

	branches, err := s.store.Branches().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, upstream("failed to load branches", err)
	}
	names := make(map[string]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}

	report := billing.DetailInvoices(values(invoices), names)
	return &report, nil
}

// ArchiveRevenueReport generates a revenue report and stores it as JSON
func (s *reportService) ArchiveRevenueReport(ctx context.Context, companyID, branchID string, filters *ReportFilters) (string, error) {
	if s.files == nil {
		return "", upstream("report archive is not configured", storage.ErrStorageUnavailable)
	}

	report, err := s.GenerateRevenueReport(ctx, companyID, branchID, filters)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", upstream("failed to encode report", err)
	}

	key := archiveKey(companyID, branchID, report.GeneratedAt)
	err = s.files.Store(ctx, key, data, &storage.StoreOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"company_id": companyID,
			"branch_id":  branchID,
			"date_range": report.Filters.DateRange,
		},
	})
	if err != nil {
		return "", upstream("failed to store report", err)
	}

	s.logger.WithFields(logrus.Fields{"branch_id": branchID, "key": key}).Info("report archived")
	return key, nil
}

// GetArchivedReport reads back an archived revenue report
func (s *reportService) GetArchivedReport(ctx context.Context, key string) (*models.RevenueReport, error) {
	if s.files == nil {
		return nil, upstream("report archive is not configured", storage.ErrStorageUnavailable)
	}
	if !strings.HasPrefix(key, reportArchiveRoot+"/") || strings.Contains(key, "..") {
		return nil, invalid(CodeValidation, "key", "invalid report key")
	}

	data, err := s.files.Retrieve(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, notFound(CodeReportNotFound, "report not found", err)
		}
		return nil, upstream("failed to read report", err)
	}

	var report models.RevenueReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, upstream("failed to decode report", err)
	}
	return &report, nil
}

func archiveKey(companyID, branchID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/revenue-%s.json", reportArchiveRoot, companyID, branchID, at.UTC().Format("20060102T150405.000Z"))
}

// ArchivedReportKey returns the storage key of an archived report file of a branch
func ArchivedReportKey(companyID, branchID, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s", reportArchiveRoot, companyID, branchID, name)
}
