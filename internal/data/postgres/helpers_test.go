package postgres

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// decimalArg matches a query argument by decimal value rather than representation
type decimalArg struct {
	want decimal.Decimal
}

func (a decimalArg) Match(v interface{}) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.Equal(a.want)
}

func (a decimalArg) String() string {
	return fmt.Sprintf("decimal(%s)", a.want)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
