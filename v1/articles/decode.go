package articles

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeArticles reads articles from r. The input may be a JSON array,
// a single JSON object or newline-delimited JSON objects.
func DecodeArticles(r io.Reader) ([]Article, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("articles: read input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var list []Article
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("articles: decode array: %w", err)
		}
		return list, nil
	}

	var out []Article
	dec := json.NewDecoder(bufio.NewReader(bytes.NewReader(data)))
	for {
		var a Article
		err := dec.Decode(&a)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("articles: decode record %d: %w", len(out)+1, err)
		}
		out = append(out, a)
	}
}
