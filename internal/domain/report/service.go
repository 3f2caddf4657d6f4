package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service turns attendance records into export rows. Non-administrative
// actors may only export their own records.
type Service interface {
	Export(ctx context.Context, actor auth.Context, req ExportRequest) (ExportResponse, error)
	ExportCSV(ctx context.Context, actor auth.Context, req ExportRequest, w io.Writer) error
}
