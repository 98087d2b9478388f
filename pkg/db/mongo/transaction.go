package mongo

import (
	"context"
	"errors"
	"fmt"

	"eventstay/pkg/db"
	apperrors "eventstay/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionManager struct {
	client *mongo.Client
}

var _ db.UnitOfWork = (*TransactionManager)(nil)

func NewTransactionManager(client *mongo.Client) *TransactionManager {
	return &TransactionManager{
		client: client,
	}
}

// Run executes fn inside a session transaction. The scope is not needed here:
// conflicting writes on the same document abort one of the transactions and
// the driver retries it with a fresh snapshot.
func (m *TransactionManager) Run(ctx context.Context, _ string, fn db.Func) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
