package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hh, mm, ss, ms int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ms*int(time.Millisecond), time.Local)
}

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"well before first cutoff", date(2025, time.November, 1, 12, 0, 0, 0), 150},
		{"last second of first tier", date(2025, time.December, 31, 23, 59, 59, 999), 150},
		{"first millisecond of second tier", date(2026, time.January, 1, 0, 0, 0, 0), 170},
		{"mid second tier", date(2026, time.January, 10, 9, 30, 0, 0), 170},
		{"last day of second tier", date(2026, time.January, 15, 23, 59, 59, 999), 170},
		{"third tier", date(2026, time.January, 16, 0, 0, 0, 0), 180},
		{"last day of third tier", date(2026, time.January, 30, 23, 59, 59, 999), 180},
		{"fourth tier", date(2026, time.January, 31, 0, 0, 0, 0), 200},
		{"last day of fourth tier", date(2026, time.February, 10, 23, 59, 59, 999), 200},
		{"after the last cutoff price stays flat", date(2026, time.February, 11, 0, 0, 0, 0), 200},
		{"far future still the final tier", date(2027, time.June, 1, 0, 0, 0, 0), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceFor(tt.now))
		})
	}
}

func TestQuote(t *testing.T) {
	now := date(2026, time.January, 10, 12, 0, 0, 0)

	fee, shirtFee, total := Quote(now, false)
	assert.Equal(t, 170, fee)
	assert.Equal(t, 0, shirtFee)
	assert.Equal(t, 170, total)

	fee, shirtFee, total = Quote(now, true)
	assert.Equal(t, 170, fee)
	assert.Equal(t, ShirtPrice, shirtFee)
	assert.Equal(t, 170+ShirtPrice, total)
}
