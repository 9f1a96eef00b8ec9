package token

import "strings"

// numberState is a state of the numeric literal automaton.
type numberState int

const (
	stateStart numberState = iota
	stateDec
	stateDecFrac
	stateDecSignedExp
	stateDecExp
	stateHex
	stateHexFrac
	stateHexSignedExp
	stateHexExp
	stateNanHex
	stateStop
)

// numericSeparator may appear between two digits of the same run.
const numericSeparator = '_'

// transition moves the automaton to next when the input at the current
// position matches either one of the fixed literals or the character class.
type transition struct {
	class     func(c byte) bool
	literals  []string
	next      numberState
	separator byte
}

func chars(set string) func(c byte) bool {
	return func(c byte) bool {
		return strings.IndexByte(set, c) >= 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func on(class func(c byte) bool, next numberState) transition {
	return transition{class: class, next: next}
}

func onRun(class func(c byte) bool, next numberState) transition {
	return transition{class: class, next: next, separator: numericSeparator}
}

func onLiteral(next numberState, literals ...string) transition {
	return transition{literals: literals, next: next}
}

var numberTransitions = map[numberState][]transition{
	stateStart: {
		on(chars("+-"), stateStart),
		onLiteral(stateNanHex, "nan:0x"),
		onLiteral(stateStop, "nan", "inf"),
		onLiteral(stateHex, "0x"),
		on(isDigit, stateDec),
		on(chars("."), stateDecFrac),
	},
	stateDec: {
		onRun(isDigit, stateDec),
		on(chars("."), stateDecFrac),
		on(chars("eE"), stateDecSignedExp),
	},
	stateDecFrac: {
		onRun(isDigit, stateDecFrac),
		on(chars("eE"), stateDecSignedExp),
	},
	stateDecSignedExp: {
		on(chars("+-"), stateDecExp),
		on(isDigit, stateDecExp),
	},
	stateDecExp: {
		onRun(isDigit, stateDecExp),
	},
	stateHex: {
		onRun(isHexDigit, stateHex),
		on(chars("."), stateHexFrac),
		on(chars("pP"), stateHexSignedExp),
	},
	stateHexFrac: {
		onRun(isHexDigit, stateHexFrac),
		on(chars("pP"), stateHexSignedExp),
	},
	stateHexSignedExp: {
		on(chars("0123456789+-"), stateHexExp),
	},
	stateHexExp: {
		onRun(isDigit, stateHexExp),
	},
	stateNanHex: {
		onRun(isHexDigit, stateNanHex),
	},
	stateStop: nil,
}

// match returns the number of bytes consumed by t at input[pos:], or 0.
func (t transition) match(input string, pos int) int {
	if len(t.literals) > 0 {
		for _, lit := range t.literals {
			if strings.HasPrefix(input[pos:], lit) {
				return len(lit)
			}
		}
		return 0
	}

	c := input[pos]
	if t.class(c) {
		return 1
	}

	// A separator counts only between two characters of the class.
	if t.separator != 0 && c == t.separator &&
		pos > 0 && t.class(input[pos-1]) &&
		pos+1 < len(input) && t.class(input[pos+1]) {
		return 2
	}
	return 0
}

// ScanNumber returns the longest prefix of input that is a numeric literal,
// or the empty string when input does not start with one.
//
// The automaton is greedy: running out of matching transitions in any state
// accepts everything consumed so far. The stop state is only entered by the
// nan and inf keywords and ends the scan immediately.
func ScanNumber(input string) string {
	state := stateStart
	pos := 0

	for state != stateStop && pos < len(input) {
		n := 0
		for _, t := range numberTransitions[state] {
			if n = t.match(input, pos); n > 0 {
				state = t.next
				break
			}
		}
		if n == 0 {
			break
		}
		pos += n
	}

	return input[:pos]
}
