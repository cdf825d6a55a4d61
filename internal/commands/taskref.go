package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todosync/internal/store"
)

// MaxLetteredLists is the number of todolists that can be addressed by letter.
const MaxLetteredLists = 26

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Letter    rune // 0 if no letter, 'a'-'z' otherwise
	TaskNum   int  // 1-based task number
	HasLetter bool // true if a list letter was provided
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrInvalidTaskRef indicates a malformed task reference.
	ErrInvalidTaskRef = errors.New("invalid task reference")

	// ErrListLetterNotFound indicates a letter beyond the loaded todolists.
	ErrListLetterNotFound = errors.New("list letter not found")
)

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//
//	3      third task of the first list
//	b12    twelfth task of list b
//	b 12   same, letter and number separated
//
// A lone letter is reported as ErrTaskRefRequired; anything else is an
// invalid reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, first)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if len(first) > 0 && isLetter(rune(first[0])) {
		letter := rune(first[0])

		if len(first) > 1 && isAllDigits(first[1:]) {
			num, err := strconv.Atoi(first[1:])
			if err != nil {
				return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, first)
			}
			return TaskRef{Letter: letter, TaskNum: num, HasLetter: true}, nil
		}

		if len(first) == 1 {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, args[1])
				}
				return TaskRef{Letter: letter, TaskNum: num, HasLetter: true}, nil
			}
			return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, first)
		}
	}

	return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, first)
}

// ParseTaskRefs parses one or more task references, e.g. "a1 a3 b 2".
// A lone letter pairs with the number that follows it.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	var refs []TaskRef
	for i := 0; i < len(args); {
		n := 1
		if len(args[i]) == 1 && isLetter(rune(args[i][0])) && i+1 < len(args) && isAllDigits(args[i+1]) {
			n = 2
		}
		ref, err := ParseTaskRef(args[i : i+n])
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		i += n
	}
	return refs, nil
}

// String renders the reference the way the list command prints it.
func (r TaskRef) String() string {
	if r.HasLetter {
		return fmt.Sprintf("%c%d", r.Letter, r.TaskNum)
	}
	return strconv.Itoa(r.TaskNum)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// ListLetter returns the letter of the i-th todolist in store order, or 0
// past the last letter.
func ListLetter(i int) rune {
	if i < 0 || i >= MaxLetteredLists {
		return 0
	}
	return rune('a' + i)
}

// ResolveListByLetter returns the todolist addressed by letter. Letters
// follow store order, so a freshly created list takes 'a'.
func ResolveListByLetter(lists []store.TodolistDomain, letter rune) (store.TodolistDomain, error) {
	if !isLetter(letter) {
		return store.TodolistDomain{}, fmt.Errorf("%w: %c", ErrListLetterNotFound, letter)
	}
	i := int(letter - 'a')
	if i >= len(lists) {
		return store.TodolistDomain{}, fmt.Errorf("%w: %c", ErrListLetterNotFound, letter)
	}
	return lists[i], nil
}
