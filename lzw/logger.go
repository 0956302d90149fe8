package lzw

import (
	"context"

	"github.com/nuclio/logger"
)

var _ logger.Logger = nopLogger{}

// nopLogger discards everything. It backs decoders created without WithLogger.
type nopLogger struct{}

func (nopLogger) Error(format interface{}, vars ...interface{})     {}
func (nopLogger) Warn(format interface{}, vars ...interface{})      {}
func (nopLogger) Info(format interface{}, vars ...interface{})      {}
func (nopLogger) Debug(format interface{}, vars ...interface{})     {}
func (nopLogger) ErrorWith(format interface{}, vars ...interface{}) {}
func (nopLogger) WarnWith(format interface{}, vars ...interface{})  {}
func (nopLogger) InfoWith(format interface{}, vars ...interface{})  {}
func (nopLogger) DebugWith(format interface{}, vars ...interface{}) {}

func (nopLogger) ErrorCtx(ctx context.Context, format interface{}, vars ...interface{})     {}
func (nopLogger) WarnCtx(ctx context.Context, format interface{}, vars ...interface{})      {}
func (nopLogger) InfoCtx(ctx context.Context, format interface{}, vars ...interface{})      {}
func (nopLogger) DebugCtx(ctx context.Context, format interface{}, vars ...interface{})     {}
func (nopLogger) ErrorWithCtx(ctx context.Context, format interface{}, vars ...interface{}) {}
func (nopLogger) WarnWithCtx(ctx context.Context, format interface{}, vars ...interface{})  {}
func (nopLogger) InfoWithCtx(ctx context.Context, format interface{}, vars ...interface{})  {}
func (nopLogger) DebugWithCtx(ctx context.Context, format interface{}, vars ...interface{}) {}

func (nopLogger) Flush()                               {}
func (l nopLogger) GetChild(name string) logger.Logger { return l }
