package datasets

import (
	"context"
	"io"

	"tracklint/pkg/pagination"
	"tracklint/pkg/tabular"
)

// System defines the public contract for dataset domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Ingest(ctx context.Context, filename string, data []byte) (*IngestResult, error)
	Schema(ctx context.Context) ([]Table, error)
	Rows(ctx context.Context, table string, page pagination.PageRequest) (*pagination.PageResult[tabular.Row], error)
	WorkingRows(ctx context.Context, table string) (string, *tabular.Table, error)
	Export(ctx context.Context, table string, w io.Writer) error
}
