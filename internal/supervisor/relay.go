package supervisor

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode"

	"github.com/randomizedcoder/trader-wrapper/internal/logging"
)

// RelayPrefix tags every relayed line of trader output.
const RelayPrefix = "[" + logging.TagTrader + "] "

const (
	relayBufferSize = 64 * 1024

	// MaxRelayLine bounds one relayed line. Longer lines are split so the
	// child never blocks on a full pipe.
	MaxRelayLine = 1024 * 1024
)

// Relay copies r to w line by line, prefixing each line with RelayPrefix and
// stripping trailing whitespace. A line split at MaxRelayLine is trimmed only
// at its real end, so the split fragments keep their bytes. It returns when r reaches EOF, which for a
// process pipe means the child has exited.
//
// onLine, if non-nil, is called with the trimmed length of every line.
// A write error does not stop the loop: r is drained to EOF regardless, and
// the first write error is returned.
func Relay(r io.Reader, w io.Writer, onLine func(n int)) (lines int64, err error) {
	br := bufio.NewReaderSize(r, relayBufferSize)
	var (
		pending  []byte
		writeErr error
		out      = make([]byte, 0, relayBufferSize)
	)

	emit := func(line []byte, trim bool) {
		if trim {
			line = bytes.TrimRightFunc(line, unicode.IsSpace)
		}
		out = append(out[:0], RelayPrefix...)
		out = append(out, line...)
		out = append(out, '\n')
		if writeErr == nil {
			if _, werr := w.Write(out); werr != nil {
				writeErr = werr
			}
		}
		lines++
		if onLine != nil {
			onLine(len(line))
		}
	}

	for {
		chunk, rerr := br.ReadSlice('\n')
		pending = append(pending, chunk...)

		switch {
		case rerr == nil:
			emit(pending, true)
			pending = pending[:0]
		case errors.Is(rerr, bufio.ErrBufferFull):
			if len(pending) >= MaxRelayLine {
				emit(pending, false)
				pending = pending[:0]
			}
		default:
			if len(pending) > 0 {
				emit(pending, true)
			}
			if errors.Is(rerr, io.EOF) || isClosedPipe(rerr) {
				return lines, writeErr
			}
			return lines, rerr
		}
	}
}
