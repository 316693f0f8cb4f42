package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionID derives a stable id from the natural key of a movement:
// date, amount, counterparty and source document. Re-importing the same
// statement therefore produces the same ids and the store can skip
// duplicates instead of accumulating them.
func TransactionID(t domain.Transaction) string {
	key := strings.Join([]string{
		t.Date.UTC().Format(time.RFC3339),
		t.Amount.String(),
		t.CounterpartyID,
		t.SourceDocumentID,
	}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func MapDomainTransactionToStore(t domain.Transaction) store.Transaction {
	return store.Transaction{
		ID:               TransactionID(t),
		Date:             t.Date.UTC(),
		Amount:           t.Amount.String(),
		Category:         t.Category,
		CounterpartyID:   t.CounterpartyID,
		SourceDocumentID: t.SourceDocumentID,
	}
}

func MapStoreTransactionToDomain(t store.Transaction) (domain.Transaction, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("stored amount %q for transaction %s: %w", t.Amount, t.ID, err)
	}
	return domain.Transaction{
		Date:             t.Date,
		Amount:           amount,
		Category:         t.Category,
		CounterpartyID:   t.CounterpartyID,
		SourceDocumentID: t.SourceDocumentID,
	}, nil
}

func MapStoreTransactionsToDomain(txns []store.Transaction) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		mapped, err := MapStoreTransactionToDomain(t)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

func MapStoreTransactionToApi(t store.Transaction) (api.Transaction, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return api.Transaction{}, fmt.Errorf("stored amount %q for transaction %s: %w", t.Amount, t.ID, err)
	}
	return api.Transaction{
		ID:               t.ID,
		Date:             t.Date,
		Amount:           amount,
		Category:         t.Category,
		CounterpartyID:   t.CounterpartyID,
		SourceDocumentID: t.SourceDocumentID,
	}, nil
}
