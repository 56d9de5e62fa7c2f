package textproc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Operation is a transformation applied to a piece of text
type Operation int

const (
	Upper Operation = iota
	Lower
	Title
	Reverse
	WordCount
)

var operationNames = map[Operation]string{
	Upper:     "upper",
	Lower:     "lower",
	Title:     "title",
	Reverse:   "reverse",
	WordCount: "word_count",
}

// Operations lists every operation in declaration order
func Operations() []Operation {
	return []Operation{Upper, Lower, Title, Reverse, WordCount}
}

// OperationNames lists the command-line names of every operation
func OperationNames() []string {
	names := make([]string, 0, len(operationNames))
	for _, op := range Operations() {
		names = append(names, op.String())
	}
	return names
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// ParseOperation returns the operation with the given name
func ParseOperation(name string) (Operation, error) {
	for op, n := range operationNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation: %s. Available: %s", name, strings.Join(OperationNames(), ", "))
}

// Apply runs op on text
func Apply(op Operation, text string) (string, error) {
	switch op {
	case Upper:
		return strings.ToUpper(text), nil
	case Lower:
		return strings.ToLower(text), nil
	case Title:
		return titleCase(text), nil
	case Reverse:
		return reverse(text), nil
	case WordCount:
		return strconv.Itoa(len(strings.Fields(text))), nil
	default:
		return "", fmt.Errorf("unsupported operation %s", op)
	}
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "they're" becomes "They'Re".
func titleCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inWord := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		b.WriteRune(r)
		inWord = false
	}
	return b.String()
}

func reverse(text string) string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
