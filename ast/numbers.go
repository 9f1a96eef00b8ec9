package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-ast/errors"
)

// NumberLiteralFromRaw parses the text spelling of a number for the given
// value type and allocates the matching literal: NumberLiteral for i32 and
// u32, LongNumberLiteral for i64 and FloatLiteral for f32 and f64. Digit
// separators are ignored; Raw keeps the spelling as written.
func (t *Tree) NumberLiteralFromRaw(raw string, typ Valtype) (Ref, error) {
	text := strings.ReplaceAll(raw, "_", "")

	switch typ {
	case I32:
		v, err := parseInt(text, 32)
		if err != nil {
			return NilRef, numberError(raw, typ, err)
		}
		return t.NewNumberLiteral(int64(int32(v)), raw)

	case U32:
		if strings.HasPrefix(text, "-") {
			return NilRef, numberError(raw, typ, fmt.Errorf("negative unsigned value"))
		}
		v, err := parseInt(text, 32)
		if err != nil {
			return NilRef, numberError(raw, typ, err)
		}
		return t.NewNumberLiteral(int64(uint32(v)), raw)

	case I64:
		v, err := parseInt(text, 64)
		if err != nil {
			return NilRef, numberError(raw, typ, err)
		}
		return t.NewLongNumberLiteral(int64(v), raw)

	case F32, F64:
		bits := 64
		if typ == F32 {
			bits = 32
		}
		v, nan, inf, err := parseFloat(text, bits)
		if err != nil {
			return NilRef, numberError(raw, typ, err)
		}
		return t.NewFloatLiteral(v, nan, inf, raw)
	}

	return NilRef, errors.Unsupported(errors.PhaseConstruct, fmt.Sprintf("number literal of type %q", typ))
}

func numberError(raw string, typ Valtype, cause error) error {
	return errors.New(errors.PhaseConstruct, errors.KindInvalidData).
		Node(string(TypeNumberLiteral)).
		Value(raw).
		Cause(cause).
		Detail("invalid %s literal %q", typ, raw).
		Build()
}

// parseInt parses a signed or unsigned decimal or hex integer that fits in
// bits as either a signed or an unsigned value, and returns its two's
// complement bit pattern.
func parseInt(text string, bits int) (uint64, error) {
	neg := false
	switch {
	case strings.HasPrefix(text, "-"):
		neg = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}

	base := 10
	if rest, ok := cutHexPrefix(text); ok {
		base = 16
		text = rest
	}

	mag, err := strconv.ParseUint(text, base, bits)
	if err != nil {
		return 0, err
	}
	if !neg {
		return mag, nil
	}
	if mag > uint64(1)<<(bits-1) {
		return 0, strconv.ErrRange
	}
	return -mag, nil
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}

func parseFloat(text string, bits int) (value float64, nan, inf bool, err error) {
	sign := 1.0
	unsigned := text
	switch {
	case strings.HasPrefix(text, "-"):
		sign = -1
		unsigned = text[1:]
	case strings.HasPrefix(text, "+"):
		unsigned = text[1:]
	}

	switch {
	case unsigned == "inf":
		return math.Inf(int(sign)), false, true, nil
	case unsigned == "nan":
		return math.Copysign(math.NaN(), sign), true, false, nil
	case strings.HasPrefix(unsigned, "nan:"):
		payload, ok := cutHexPrefix(unsigned[len("nan:"):])
		if !ok {
			return 0, false, false, fmt.Errorf("nan payload must be hexadecimal")
		}
		p, err := strconv.ParseUint(payload, 16, 64)
		if err != nil {
			return 0, false, false, err
		}
		return nanWithPayload(p, sign < 0, bits)
	}

	if rest, ok := cutHexPrefix(unsigned); ok && !strings.ContainsAny(rest, "pP") {
		text += "p0"
	}

	value, err = strconv.ParseFloat(text, bits)
	if err != nil {
		return 0, false, false, err
	}
	return value, false, false, nil
}

func nanWithPayload(payload uint64, negative bool, bits int) (float64, bool, bool, error) {
	if bits == 32 {
		if payload == 0 || payload >= 1<<23 {
			return 0, false, false, strconv.ErrRange
		}
		b := uint32(0x7f800000) | uint32(payload)
		if negative {
			b |= 1 << 31
		}
		return float64(math.Float32frombits(b)), true, false, nil
	}

	if payload == 0 || payload >= 1<<52 {
		return 0, false, false, strconv.ErrRange
	}
	b := uint64(0x7ff0000000000000) | payload
	if negative {
		b |= 1 << 63
	}
	return math.Float64frombits(b), true, false, nil
}
