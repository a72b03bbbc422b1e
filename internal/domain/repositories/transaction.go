package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions inside a database transaction. The
// transaction travels in the context (see SetTx) so repositories join
// it transparently.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
