package mouse

import "bytes"

// maxSequenceLen bounds how long an unterminated report may be held back.
const maxSequenceLen = 32

// Segment is a span of raw input: either one complete SGR mouse report or a
// run of bytes meant for the key parser.
type Segment struct {
	Mouse bool
	Data  []byte
}

// Scan splits data into mouse reports and pass-through spans. A trailing
// report that has its `ESC [ <` prefix but no terminator yet is returned as
// rest so the caller can prepend it to the next read. Lone `ESC` or `ESC [`
// bytes are never held back.
func Scan(data []byte) (segments []Segment, rest []byte) {
	start := 0
	i := 0
	for i < len(data) {
		idx := bytes.Index(data[i:], sgrPrefix)
		if idx < 0 {
			break
		}
		idx += i
		end, complete := sequenceEnd(data, idx+len(sgrPrefix))
		if !complete {
			if len(data)-idx <= maxSequenceLen {
				segments = appendPlain(segments, data[start:idx])
				return segments, data[idx:]
			}
			i = idx + 1
			continue
		}
		if end < 0 {
			i = idx + 1
			continue
		}
		segments = appendPlain(segments, data[start:idx])
		segments = append(segments, Segment{Mouse: true, Data: data[idx : end+1]})
		start = end + 1
		i = start
	}
	return appendPlain(segments, data[start:]), nil
}

// sequenceEnd returns the index of the terminator. complete is false when
// data ran out first; end is -1 when a byte outside the report grammar
// appeared.
func sequenceEnd(data []byte, from int) (end int, complete bool) {
	for j := from; j < len(data); j++ {
		switch c := data[j]; {
		case c >= '0' && c <= '9', c == ';':
		case c == 'M', c == 'm':
			return j, true
		default:
			return -1, true
		}
	}
	return -1, false
}

func appendPlain(segments []Segment, b []byte) []Segment {
	if len(b) == 0 {
		return segments
	}
	return append(segments, Segment{Data: b})
}
