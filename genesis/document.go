package genesis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for template documents
var (
	ErrMalformedDocument = errors.New("malformed genesis document")
	ErrMissingArray      = errors.New("genesis document array missing")
)

// Locations of the arrays extended by the migration.
var (
	AccountsPath = []string{"app_state", "auth", "accounts"}
	BalancesPath = []string{"app_state", "bank", "balances"}
)

// Indent is the per-level indentation of encoded documents.
const Indent = "  "

// Document is a genesis document held as generic JSON. Numbers are kept as
// json.Number so they round-trip verbatim, and objects encode with sorted keys.
type Document struct {
	root map[string]any
}

// ParseDocument decodes a template document and checks that both arrays the
// migration appends to are present.
func ParseDocument(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformedDocument)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedDocument)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: document is null", ErrMalformedDocument)
	}

	doc := &Document{root: root}
	for _, path := range [][]string{AccountsPath, BalancesPath} {
		if _, err := doc.array(path); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// AppendAccounts appends account records to app_state.auth.accounts
func (d *Document) AppendAccounts(accounts ...any) error {
	return d.appendTo(AccountsPath, accounts)
}

// AppendBalances appends balance records to app_state.bank.balances
func (d *Document) AppendBalances(balances ...Balance) error {
	items := make([]any, len(balances))
	for i, b := range balances {
		items[i] = b
	}
	return d.appendTo(BalancesPath, items)
}

// Len returns the number of elements in the array at path.
func (d *Document) Len(path []string) (int, error) {
	arr, err := d.array(path)
	if err != nil {
		return 0, err
	}
	return len(arr), nil
}

// Encode serializes the document in its canonical form: two-space indent,
// sorted object keys, no trailing newline. Only quotes, backslashes and
// control characters are escaped; U+2028 and U+2029 are written raw.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into the raw characters. Other escapes are copied as
// pairs so an escaped backslash followed by "u2028" stays literal.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i+1:]; bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029")) {
			r := '\u2028'
			if rest[4] == '9' {
				r = '\u2029'
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

func (d *Document) appendTo(path []string, items []any) error {
	arr, err := d.array(path)
	if err != nil {
		return err
	}
	parent, err := d.object(path[:len(path)-1])
	if err != nil {
		return err
	}
	parent[path[len(path)-1]] = append(arr, items...)
	return nil
}

func (d *Document) array(path []string) ([]any, error) {
	parent, err := d.object(path[:len(path)-1])
	if err != nil {
		return nil, err
	}
	v, ok := parent[path[len(path)-1]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingArray, strings.Join(path, "."))
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", ErrMissingArray, strings.Join(path, "."))
	}
	return arr, nil
}

func (d *Document) object(path []string) (map[string]any, error) {
	cur := d.root
	for i, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an object", ErrMissingArray, strings.Join(path[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}
