package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
	"github.com/KaramelBytes/datakit-cli/internal/literal"
)

const maxLineBytes = 64 << 20

// lineDecoder turns one non-blank line into a record.
type lineDecoder func(line []byte) (frame.Record, error)

func readLines(path string, gzipped bool, decode lineDecoder, opt Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}
	if src, err = opt.decode(src); err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	b := frame.NewBuilder()
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		b.Append(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return b.Frame()
}

// decodeJSONLine keeps object keys in document order. Nested objects and
// arrays are stored as compact JSON text.
func decodeJSONLine(line []byte) (frame.Record, error) {
	var rec frame.Record
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return rec, fmt.Errorf("decode json: %w", err)
	}
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return rec, fmt.Errorf("decode json: %w", err)
			}
			key, _ := kt.(string)
			v, err := jsonCell(dec)
			if err != nil {
				return rec, err
			}
			rec.Add(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return rec, fmt.Errorf("decode json: %w", err)
		}
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			v, err := jsonCell(dec)
			if err != nil {
				return rec, err
			}
			rec.Add(strconv.Itoa(i), v)
		}
		if _, err := dec.Token(); err != nil {
			return rec, fmt.Errorf("decode json: %w", err)
		}
	default:
		rec.Add("0", tok)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return rec, errors.New("decode json: trailing data after value")
	}
	return rec, nil
}

func jsonCell(dec *json.Decoder) (any, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return buf.String(), nil
	}
	sd := json.NewDecoder(bytes.NewReader(raw))
	sd.UseNumber()
	var v any
	if err := sd.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// decodeLiteralLine parses one host literal. Dicts become records; lists
// and tuples become positional records; anything else fills column "0".
func decodeLiteralLine(line []byte) (frame.Record, error) {
	var rec frame.Record
	v, err := literal.Parse(string(line))
	if err != nil {
		return rec, err
	}
	switch t := v.(type) {
	case *literal.Dict:
		for i, k := range t.Keys {
			key, ok := k.(string)
			if !ok {
				key = literal.Repr(k)
			}
			rec.Add(key, literalCell(t.Values[i]))
		}
	case []any:
		for i, it := range t {
			rec.Add(strconv.Itoa(i), literalCell(it))
		}
	case literal.Tuple:
		for i, it := range t {
			rec.Add(strconv.Itoa(i), literalCell(it))
		}
	default:
		rec.Add("0", literalCell(v))
	}
	return rec, nil
}

func literalCell(v any) any {
	switch v.(type) {
	case nil, bool, int64, float64, string:
		return v
	default:
		return literal.Repr(v)
	}
}
