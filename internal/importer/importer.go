// Package importer turns bank statement exports into transaction inputs.
package importer

import (
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// Options supply what a bank statement does not carry: the account the
// statement belongs to and a category for each direction.
type Options struct {
	AccountID         int64
	IncomeCategoryID  int64
	ExpenseCategoryID int64
}

// Validate checks that every option is set.
func (o Options) Validate() error {
	var errs []error
	if o.AccountID <= 0 {
		errs = append(errs, errors.New("account is required"))
	}
	if o.IncomeCategoryID <= 0 {
		errs = append(errs, errors.New("income category is required"))
	}
	if o.ExpenseCategoryID <= 0 {
		errs = append(errs, errors.New("expense category is required"))
	}
	return errors.Join(errs...)
}

// category picks the category for a transaction kind.
func (o Options) category(kind model.TransactionKind) int64 {
	if kind == model.TransactionKindExpense {
		return o.ExpenseCategoryID
	}
	return o.IncomeCategoryID
}

// Parser converts a bank CSV file into transaction inputs.
type Parser interface {
	Parse(r io.Reader, opts Options) ([]model.TransactionInput, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	return r
}
