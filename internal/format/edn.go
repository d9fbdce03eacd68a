package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes a strict EDN representation.
//
// Only the subset our payloads need is supported (maps, vectors, strings, numbers,
// booleans, nil). Structs go through JSON so json tags decide the keys.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := viaJSON(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.writeAny(&buf, x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) writeAny(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case float64:
		// JSON numbers decode as float64; print integral values as ints.
		if float64(int64(t)) == t {
			buf.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.writeVec(buf, t, level)
	case map[string]any:
		e.writeMap(buf, t, level)
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) open(buf *bytes.Buffer) {
	if e.pretty {
		buf.WriteByte('\n')
	}
}

func (e ednEncoder) sep(buf *bytes.Buffer, last bool) {
	if last {
		return
	}
	if e.pretty {
		buf.WriteByte('\n')
	} else {
		buf.WriteByte(' ')
	}
}

func (e ednEncoder) pad(buf *bytes.Buffer, level int) {
	if e.pretty {
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
}

func (e ednEncoder) close(buf *bytes.Buffer, level int) {
	if e.pretty {
		buf.WriteByte('\n')
		e.pad(buf, level)
	}
}

func (e ednEncoder) writeVec(buf *bytes.Buffer, xs []any, level int) {
	buf.WriteByte('[')
	if len(xs) == 0 {
		buf.WriteByte(']')
		return
	}
	e.open(buf)
	for i, it := range xs {
		e.pad(buf, level+1)
		e.writeAny(buf, it, level+1)
		e.sep(buf, i == len(xs)-1)
	}
	e.close(buf, level)
	buf.WriteByte(']')
}

func (e ednEncoder) writeMap(buf *bytes.Buffer, m map[string]any, level int) {
	buf.WriteByte('{')
	if len(m) == 0 {
		buf.WriteByte('}')
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.open(buf)
	for i, k := range keys {
		e.pad(buf, level+1)
		buf.WriteString(ednKey(k))
		buf.WriteByte(' ')
		e.writeAny(buf, m[k], level+1)
		e.sep(buf, i == len(keys)-1)
	}
	e.close(buf, level)
	buf.WriteByte('}')
}

// ednKey renders field names as keywords. Keys that can't be keywords (override maps are
// keyed by item names like "almond milk") stay strings so nothing is lost.
func ednKey(s string) string {
	if isKeyword(s) {
		return ":" + s
	}
	return strconv.Quote(s)
}

func isKeyword(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '-', r == '_', r == '.', r == '?', r == '!':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
