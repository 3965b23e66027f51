package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	ColBusinessUnit  = "but_name_business_unit"
	ColMonth         = "month_name"
	ColTimeOfDay     = "Time of Day"
	ColTransactionID = "the_transaction_id"
	ColCustomerID    = "ctm_customer_id"
	ColQuantity      = "f_qty_item"
	ColUnitPrice     = "f_to_tax_in"
	ColModel         = "mdl_num_model_r3"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

var RequiredColumns = []string{
	ColBusinessUnit,
	ColMonth,
	ColTimeOfDay,
	ColTransactionID,
	ColCustomerID,
	ColQuantity,
	ColUnitPrice,
	ColModel,
}

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyFile      = errors.New("empty file")
	ErrNoRows         = errors.New("no valid records found")
)

type columnIndex map[string]int

func buildIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// Parse reads a delimited table with a header row. Rows with too few fields
// or unparsable numbers are skipped and counted in Dataset.Skipped.
func Parse(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := buildIndex(header)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	rows, skipped, err := parseRecords(ctx, records, idx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	d := New(rows)
	d.Skipped = skipped
	return d, nil
}

// parseRecords converts records in parallel batches and keeps file order.
func parseRecords(ctx context.Context, records [][]string, idx columnIndex) ([]models.Transaction, int, error) {
	parsed := make([]models.Transaction, len(records))
	valid := make([]bool, len(records))
	var skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				tx, err := parseTransaction(records[i], idx)
				if err != nil {
					skipped.Add(1)
					continue
				}
				parsed[i] = tx
				valid[i] = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	rows := make([]models.Transaction, 0, len(records)-int(skipped.Load()))
	for i, ok := range valid {
		if ok {
			rows = append(rows, parsed[i])
		}
	}
	return rows, int(skipped.Load()), nil
}

func parseTransaction(record []string, idx columnIndex) (models.Transaction, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(record) {
			return "", fmt.Errorf("insufficient columns")
		}
		return strings.TrimSpace(record[i]), nil
	}

	var tx models.Transaction
	var err error

	text := []struct {
		col string
		dst *string
	}{
		{ColBusinessUnit, &tx.BusinessUnit},
		{ColMonth, &tx.Month},
		{ColTimeOfDay, &tx.TimeOfDay},
		{ColTransactionID, &tx.TransactionID},
		{ColCustomerID, &tx.CustomerID},
		{ColModel, &tx.Model},
	}
	for _, f := range text {
		if *f.dst, err = field(f.col); err != nil {
			return models.Transaction{}, err
		}
	}

	qty, err := field(ColQuantity)
	if err != nil {
		return models.Transaction{}, err
	}
	if tx.Quantity, err = strconv.ParseFloat(qty, 64); err != nil {
		return models.Transaction{}, fmt.Errorf("parse %s: %w", ColQuantity, err)
	}

	price, err := field(ColUnitPrice)
	if err != nil {
		return models.Transaction{}, err
	}
	if tx.UnitPrice, err = strconv.ParseFloat(price, 64); err != nil {
		return models.Transaction{}, fmt.Errorf("parse %s: %w", ColUnitPrice, err)
	}

	// ParseFloat accepts NaN and Inf; Sales arithmetic cannot.
	if !finite(tx.Quantity) {
		return models.Transaction{}, fmt.Errorf("parse %s: non-finite value %q", ColQuantity, qty)
	}
	if !finite(tx.UnitPrice) {
		return models.Transaction{}, fmt.Errorf("parse %s: non-finite value %q", ColUnitPrice, price)
	}

	return tx, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
