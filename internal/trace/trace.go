// Package trace parses allocation trace files: a four-line header followed
// by one operation per line, the replay input format of the benchmark
// harness.
//
// Header lines, in order: suggested heap size, distinct handle-id count,
// operation count, weight. Operation lines:
//
//	a <id> <size>   acquire <size> bytes into slot <id>
//	r <id> <size>   resize slot <id> to <size> bytes
//	f <id>          release slot <id>
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBadTrace marks any structural problem in a trace file.
var ErrBadTrace = errors.New("malformed trace")

// OpKind identifies one trace operation.
type OpKind byte

const (
	OpAcquire OpKind = 'a'
	OpResize  OpKind = 'r'
	OpRelease OpKind = 'f'
)

// Op is one replayable operation. Size is meaningless for OpRelease.
type Op struct {
	Kind OpKind
	ID   int
	Size int
}

// Trace is one fully parsed trace file.
type Trace struct {
	// SuggestedHeap is the heap size hint from the header. Informational;
	// the allocator grows on demand regardless.
	SuggestedHeap int
	// Slots is the number of distinct handle ids the operations use.
	Slots int
	// Weight is the header's scoring weight. Informational.
	Weight int

	Ops []Op
}

// ParseFile reads and parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	tr, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse reads a complete trace from r. Every line is validated; the first
// problem aborts the parse with a line-numbered error wrapping ErrBadTrace.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			s := strings.TrimSpace(sc.Text())
			if s != "" {
				return s, true
			}
		}
		return "", false
	}
	headerInt := func(name string) (int, error) {
		s, ok := next()
		if !ok {
			return 0, fmt.Errorf("%w: missing %s header line", ErrBadTrace, name)
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: line %d: bad %s %q", ErrBadTrace, line, name, s)
		}
		return n, nil
	}

	var tr Trace
	var err error
	if tr.SuggestedHeap, err = headerInt("heap size"); err != nil {
		return nil, err
	}
	if tr.Slots, err = headerInt("slot count"); err != nil {
		return nil, err
	}
	opCount, err := headerInt("op count")
	if err != nil {
		return nil, err
	}
	if tr.Weight, err = headerInt("weight"); err != nil {
		return nil, err
	}

	tr.Ops = make([]Op, 0, opCount)
	for {
		s, ok := next()
		if !ok {
			break
		}
		op, err := parseOp(s, tr.Slots)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	if len(tr.Ops) != opCount {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d",
			ErrBadTrace, opCount, len(tr.Ops))
	}
	return &tr, nil
}

func parseOp(s string, slots int) (Op, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Op{}, fmt.Errorf("%w: short op line %q", ErrBadTrace, s)
	}
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("%w: bad op %q", ErrBadTrace, fields[0])
	}

	op := Op{Kind: OpKind(fields[0][0])}
	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= slots {
		return Op{}, fmt.Errorf("%w: bad slot id %q", ErrBadTrace, fields[1])
	}
	op.ID = id

	switch op.Kind {
	case OpAcquire, OpResize:
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("%w: %c needs a size: %q", ErrBadTrace, op.Kind, s)
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return Op{}, fmt.Errorf("%w: bad size %q", ErrBadTrace, fields[2])
		}
		op.Size = size
	case OpRelease:
		if len(fields) != 2 {
			return Op{}, fmt.Errorf("%w: f takes only a slot id: %q", ErrBadTrace, s)
		}
	default:
		return Op{}, fmt.Errorf("%w: unknown op %q", ErrBadTrace, fields[0])
	}
	return op, nil
}
