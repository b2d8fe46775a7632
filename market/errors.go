package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData is returned when a run is attempted over an empty bar series.
// Callers must not invoke the engine without data.
var ErrNoData = errors.New("market: empty bar series")

// OrderError reports a bar whose timestamp does not strictly increase.
type OrderError struct {
	Index int
	Prev  time.Time
	Cur   time.Time
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("market: bar %d out of order: %s !> %s",
		e.Index, e.Cur.Format(time.RFC3339), e.Prev.Format(time.RFC3339))
}
