// Package backend presents one operation contract over the policy store,
// implemented by exactly one of two strategies chosen at startup: proxy
// (HTTP calls against the REST surface) or direct (parameterized SQL against
// the pool). Callers never branch on which strategy is active.
package backend

import (
	"context"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

// Result is the uniform outcome shape every operation returns. A failed
// operation carries a machine code (errorutil vocabulary) and a
// human-readable message; it never panics or surfaces a raw transport error.
type Result struct {
	OK      bool
	Code    string
	Err     string
	Records []domain.PolicyRecord
	Backup  *domain.Backup
	Count   int64
}

// Backend is the operation contract shared by both strategies.
//
// Create and BulkReplace are all-or-nothing per call. No operation retries
// automatically; a failure is reported once through the Result.
type Backend interface {
	List(ctx context.Context) Result
	Create(ctx context.Context, records []domain.PolicyRecord) Result
	Update(ctx context.Context, id int64, upd domain.PolicyUpdate) Result
	Delete(ctx context.Context, id int64) Result
	BulkDelete(ctx context.Context, password string) Result
	BulkReplace(ctx context.Context, records []domain.PolicyRecord) Result
	Backup(ctx context.Context) Result
}

func success() Result {
	return Result{OK: true}
}

func successRecords(records []domain.PolicyRecord) Result {
	return Result{OK: true, Records: records}
}

func failure(code, message string) Result {
	return Result{Code: code, Err: message}
}
