package journal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/model"
)

// DefaultPageSize is how many rows Export asks for per request.
const DefaultPageSize = 200

// ErrInvalidImport wraps the validation errors of a rejected import.
var ErrInvalidImport = errors.New("invalid import")

// Client is the part of the transactions API the journal needs.
// *api.Client satisfies it.
type Client interface {
	ListTransactions(ctx context.Context, f api.TransactionFilter) (model.TransactionPage, error)
	CreateTransaction(ctx context.Context, in model.TransactionInput) (model.TransactionRow, error)
}

// Service exports and imports transaction rows as CSV.
type Service struct {
	client   Client
	pageSize int
	log      zerolog.Logger
}

// NewService creates a journal Service.
func NewService(client Client, log zerolog.Logger) *Service {
	return &Service{
		client:   client,
		pageSize: DefaultPageSize,
		log:      log.With().Str("component", "journal").Logger(),
	}
}

// SetPageSize overrides DefaultPageSize. Non-positive values are ignored.
func (s *Service) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// Export pages through every row matching filter and writes them as CSV.
// Filter.Page and Filter.PageSize are managed by Export. It returns the
// number of rows written.
func (s *Service) Export(ctx context.Context, w io.Writer, filter api.TransactionFilter) (int, error) {
	if err := WriteRows(w, nil); err != nil {
		return 0, err
	}

	written := 0
	filter.PageSize = s.pageSize
	for page := 1; ; page++ {
		filter.Page = page
		p, err := s.client.ListTransactions(ctx, filter)
		if err != nil {
			return written, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if err := AppendRows(w, p.Rows); err != nil {
			return written, err
		}
		written += len(p.Rows)

		s.log.Debug().
			Int("page", page).
			Int("rows", len(p.Rows)).
			Int64("total", p.Total).
			Msg("Exported page")

		if len(p.Rows) == 0 || int64(written) >= p.Total {
			return written, nil
		}
	}
}

// ImportResult reports what an import created.
type ImportResult struct {
	Created []model.TransactionRow
}

// ImportOptions controls Import.
type ImportOptions struct {
	Accounts AccountChecker // optional existence check for account ids
	DryRun   bool           // validate only
}

// Import reads rows in the export format and passes them to ImportInputs.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	inputs, err := ReadInputs(r)
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportInputs(ctx, inputs, opts)
}

// ImportInputs validates all inputs, then creates them one by one. Nothing
// is sent if any input is invalid. A failed create stops the import; rows
// created before it are reported in the result. Rows are numbered as in a
// CSV file with a header.
func (s *Service) ImportInputs(ctx context.Context, inputs []model.TransactionInput, opts ImportOptions) (ImportResult, error) {
	if verrs := ValidateInputs(inputs, opts.Accounts); len(verrs) > 0 {
		joined := make([]error, len(verrs))
		for i, ve := range verrs {
			joined[i] = ve
		}
		return ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidImport, errors.Join(joined...))
	}
	if opts.DryRun {
		return ImportResult{}, nil
	}

	var res ImportResult
	for i, in := range inputs {
		row, err := s.client.CreateTransaction(ctx, in)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", i+2, err)
		}
		res.Created = append(res.Created, row)
	}

	s.log.Info().Int("rows", len(res.Created)).Msg("Imported transactions")
	return res, nil
}
