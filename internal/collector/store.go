//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

package collector

import (
	"context"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Store is the persistence the loop appends rows to. store.Store implements
// it.
type Store interface {
	AppendSystemSample(ctx context.Context, s record.SystemSample) error
	AppendProcessSample(ctx context.Context, s record.ProcessSample) error
}
