package slot

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// NormalizeBookings turns the joined booking relation into a sequence. The
// relation may arrive as JSON null, a single object or an array. Anything it
// cannot decode yields an empty sequence and a warning.
func NormalizeBookings(raw []byte, logger *slog.Logger) []Booking {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Booking{}
	}

	switch trimmed[0] {
	case '[':
		var bookings []Booking
		if err := json.Unmarshal(trimmed, &bookings); err != nil {
			warnMalformed(logger, err)
			return []Booking{}
		}
		if bookings == nil {
			return []Booking{}
		}
		return bookings
	case '{':
		var booking Booking
		if err := json.Unmarshal(trimmed, &booking); err != nil {
			warnMalformed(logger, err)
			return []Booking{}
		}
		return []Booking{booking}
	default:
		warnMalformed(logger, nil)
		return []Booking{}
	}
}

func warnMalformed(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("Discarding malformed booking relation", "error", err)
		return
	}
	logger.Warn("Discarding booking relation of unexpected shape")
}
