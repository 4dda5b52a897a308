package billing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// BranchCode returns the three character prefix of a branch's invoice numbers.
// Names shorter than three characters are padded with "X".
func BranchCode(branchName string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(branchName)))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	for len(runes) < 3 {
		runes = append(runes, models.DefaultBranchCodeFiller)
	}
	return string(runes)
}

// InvoiceNumber formats the next invoice number of a branch given how many invoices,
// soft-deleted included, it already has.
func InvoiceNumber(branchName string, existingCount int) string {
	if existingCount < 0 {
		existingCount = 0
	}
	return fmt.Sprintf("%s-%0*d", BranchCode(branchName), models.InvoiceNumberDigits, existingCount+1)
}

// BranchLocker hands out one mutex per branch so that counting and inserting
// invoices for the same branch never interleave within a process.
type BranchLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBranchLocker creates an empty locker
func NewBranchLocker() *BranchLocker {
	return &BranchLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the branch mutex and returns its release function
func (l *BranchLocker) Lock(branchID string) func() {
	l.mu.Lock()
	m, ok := l.locks[branchID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[branchID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
