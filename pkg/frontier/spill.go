package frontier

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/coverwalk/coverwalk/pkg/graph"
	"github.com/coverwalk/coverwalk/pkg/walk"
)

// A spill record is laid out as
//
//	[length uint32][state ids, one byte each][n uint16]
//
// little-endian. The trailing n lets a reader walk the file backwards without
// an index.
const (
	lengthFieldSize = 4
	countFieldSize  = 2
	recordOverhead  = lengthFieldSize + countFieldSize
	maxRecordSize   = recordOverhead + math.MaxUint16

	spillBatchSize = 1 << 20
	readBlockSize  = 1 << 16
)

var (
	ErrWalkTooLong  = errors.New("walk has too many states to spill")
	ErrCorruptSpill = errors.New("spill file is corrupt")
)

func recordSize(states int) int64 {
	return int64(recordOverhead + states)
}

// appendRecord encodes w onto buf.
func appendRecord(buf []byte, w walk.Walk) ([]byte, error) {
	if len(w.States) > math.MaxUint16 {
		return buf, fmt.Errorf("%w: %d", ErrWalkTooLong, len(w.States))
	}
	buf = binary.LittleEndian.AppendUint32(buf, w.Length)
	for _, s := range w.States {
		buf = append(buf, byte(s))
	}
	return binary.LittleEndian.AppendUint16(buf, uint16(len(w.States))), nil
}

// spillFile is a stack of records stored in a single file. end is the logical
// end of the stack; bytes past it are stale and get overwritten by the next
// write, so the file is never truncated while in use.
type spillFile struct {
	f       *os.File
	path    string
	graph   *graph.Graph
	end     int64
	records int

	pending []byte

	// block caches file bytes [blockStart, end) for backward reads.
	block      []byte
	blockStart int64
}

// createSpillFile creates the file at path, truncating any previous content.
func createSpillFile(path string, g *graph.Graph) (*spillFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create spill file: %w", err)
	}
	return &spillFile{
		f:     f,
		path:  path,
		graph: g,
	}, nil
}

func (s *spillFile) Len() int {
	return s.records
}

// push buffers w for the next flush.
func (s *spillFile) push(w walk.Walk) error {
	var err error
	s.pending, err = appendRecord(s.pending, w)
	if err != nil {
		return err
	}
	s.records++

	if len(s.pending) >= spillBatchSize {
		return s.flush()
	}
	return nil
}

// flush writes buffered records at the end cursor.
func (s *spillFile) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	if _, err := s.f.WriteAt(s.pending, s.end); err != nil {
		return fmt.Errorf("write spill file: %w", err)
	}
	s.end += int64(len(s.pending))
	s.pending = s.pending[:0]
	s.block = s.block[:0]
	s.blockStart = s.end
	return nil
}

// load makes sure the block holds at least the last need bytes before end.
func (s *spillFile) load(need int64) error {
	if s.end-s.blockStart >= need {
		return nil
	}
	if need > s.end {
		return fmt.Errorf("%w: record of %d bytes ends at offset %d", ErrCorruptSpill, need, s.end)
	}

	size := max(need, readBlockSize)
	start := max(s.end-size, 0)
	if cap(s.block) < int(s.end-start) {
		s.block = make([]byte, s.end-start)
	}
	s.block = s.block[:s.end-start]

	if _, err := s.f.ReadAt(s.block, start); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read spill file: %w", err)
	}
	s.blockStart = start
	return nil
}

// pop removes and decodes the most recent record. The cursor ends up at the
// first byte of that record.
func (s *spillFile) pop() (walk.Walk, error) {
	if err := s.flush(); err != nil {
		return walk.Walk{}, err
	}

	if err := s.load(countFieldSize); err != nil {
		return walk.Walk{}, err
	}
	tail := s.block[s.end-s.blockStart-countFieldSize:]
	n := int64(binary.LittleEndian.Uint16(tail))
	if n == 0 {
		return walk.Walk{}, fmt.Errorf("%w: empty record at offset %d", ErrCorruptSpill, s.end)
	}

	size := recordSize(int(n))
	if err := s.load(size); err != nil {
		return walk.Walk{}, err
	}

	rec := s.block[s.end-size-s.blockStart : s.end-s.blockStart]
	states := make([]graph.NodeID, n)
	for i, b := range rec[lengthFieldSize : lengthFieldSize+n] {
		states[i] = graph.NodeID(b)
	}

	s.end -= size
	s.block = s.block[:s.end-s.blockStart]
	s.records--

	return walk.Walk{
		States: states,
		Length: binary.LittleEndian.Uint32(rec[:lengthFieldSize]),
		Graph:  s.graph,
	}, nil
}

// Close closes and removes the file.
func (s *spillFile) Close() error {
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close spill file: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove spill file: %w", err)
	}
	return nil
}
