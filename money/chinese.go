package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	cnDigits   = []string{"零", "壹", "贰", "叁", "肆", "伍", "陆", "柒", "捌", "玖"}
	cnUnits    = []string{"", "拾", "佰", "仟"}
	cnBigUnits = []string{"", "万", "亿", "万亿"}
)

const cnZero = "零"

// ErrTooLarge is returned for amounts of 10^16 or more, which have no big-unit marker.
var ErrTooLarge = errors.New("money: amount too large for capitalized form")

var cnLimit = decimal.New(1, 16)

// ToChineseUpper renders amount in capitalized Chinese currency form as printed on invoices
// and receipts, e.g. 212 -> 贰佰壹拾贰元整, 1.05 -> 壹元零伍分. Amounts below one yuan keep the
// 零元 prefix: 0.05 -> 零元零伍分.
func ToChineseUpper(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", ErrNegative
	}
	amount = amount.Round(Places)
	if amount.GreaterThanOrEqual(cnLimit) {
		return "", ErrTooLarge
	}
	if amount.IsZero() {
		return "零元整", nil
	}

	integer := amount.Floor()
	cents := amount.Sub(integer).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var b strings.Builder
	if integer.IsPositive() {
		writeIntegerPart(&b, integer.String())
	} else {
		b.WriteString(cnZero)
	}
	b.WriteString("元")

	if cents == 0 {
		b.WriteString("整")
		return b.String(), nil
	}
	jiao, fen := cents/10, cents%10
	if jiao > 0 {
		b.WriteString(cnDigits[jiao])
		b.WriteString("角")
	} else if fen > 0 {
		b.WriteString(cnZero)
	}
	if fen > 0 {
		b.WriteString(cnDigits[fen])
		b.WriteString("分")
	}
	return b.String(), nil
}

// writeIntegerPart writes the digits of s (no sign, no leading zeros) in four-digit groups.
func writeIntegerPart(b *strings.Builder, s string) {
	var groups []string
	for end := len(s); end > 0; end -= 4 {
		start := end - 4
		if start < 0 {
			start = 0
		}
		groups = append([]string{s[start:end]}, groups...)
	}

	skipped := false
	for i, g := range groups {
		part := renderGroup(g)
		if part == "" {
			skipped = b.Len() > 0
			continue
		}
		if skipped && !strings.HasPrefix(part, cnZero) {
			b.WriteString(cnZero)
		}
		skipped = false
		b.WriteString(part)
		b.WriteString(cnBigUnits[len(groups)-1-i])
	}
}

// renderGroup renders one group of up to four digits. Zeros between non-zero digits collapse to
// a single 零; trailing zeros are dropped. A group that is all zeros renders as "".
func renderGroup(g string) string {
	var b strings.Builder
	pendingZero := false
	for i := 0; i < len(g); i++ {
		d := int(g[i] - '0')
		pos := len(g) - 1 - i
		if d == 0 {
			pendingZero = true
			continue
		}
		if pendingZero {
			b.WriteString(cnZero)
			pendingZero = false
		}
		b.WriteString(cnDigits[d])
		if pos < len(cnUnits) {
			b.WriteString(cnUnits[pos])
		}
	}
	return b.String()
}
