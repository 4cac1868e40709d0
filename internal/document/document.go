// Package document provides the questionnaire document model.
//
// The document is held as raw JSON bytes for its whole lifetime: reads are
// gjson queries and the only mutations are surgical sjson writes of
// identifier fields and possibleAnswers arrays. Untouched fields keep their
// order and content byte-for-byte across a read-modify-write cycle; output
// is re-indented, which is the only formatting normalization applied.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	qerrors "qtk/internal/errors"
)

// Document is a questionnaire document. The zero value is not usable;
// construct one with Parse or LoadFile.
type Document struct {
	raw []byte
}

// FieldValue is the typed view of one field of an AnswerOption, used by the
// sorter. Text is the stringified value (numbers and booleans included).
type FieldValue struct {
	Present  bool
	Null     bool
	IsString bool
	Text     string
}

// Parse builds a Document from raw JSON bytes. It fails with FORMAT_ERROR
// when the bytes are not a JSON object or when a 'questions' field exists
// but is not an array. An absent 'questions' field is an empty document.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, qerrors.New(qerrors.FormatError, "document is not valid JSON", nil)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, qerrors.New(qerrors.FormatError, "document root is not a JSON object", nil)
	}
	q := root.Get("questions")
	if q.Exists() && !q.IsArray() {
		return nil, qerrors.New(qerrors.FormatError, "'questions' is not an array", nil)
	}

	// Private copy; callers may reuse their buffer.
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Document{raw: raw}, nil
}

// LoadFile reads and parses the document at path
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, qerrors.New(qerrors.FormatError, fmt.Sprintf("failed to read %s", path), err)
	}
	return Parse(data)
}

// Raw returns the current raw bytes of the document
func (d *Document) Raw() []byte {
	return d.raw
}

// Indented returns the document re-indented with two spaces
func (d *Document) Indented() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QuestionCount returns the number of entries in the questions array
func (d *Document) QuestionCount() int {
	return int(gjson.GetBytes(d.raw, "questions.#").Int())
}

// QuestionID returns the identifier of question qi. Missing, null, or empty
// identifiers all come back as "".
func (d *Document) QuestionID(qi int) string {
	return idString(gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.id", qi)))
}

// HasAnswers reports whether question qi carries a possibleAnswers array.
// Absent or non-array possibleAnswers means "no answers", not an error.
func (d *Document) HasAnswers(qi int) bool {
	return gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers", qi)).IsArray()
}

// AnswerCount returns the number of possibleAnswers of question qi,
// or 0 when the question has none
func (d *Document) AnswerCount(qi int) int {
	if !d.HasAnswers(qi) {
		return 0
	}
	return int(gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers.#", qi)).Int())
}

// AnswerID returns the identifier of answer ai under question qi.
// Missing, null, or empty identifiers all come back as "".
func (d *Document) AnswerID(qi, ai int) string {
	return idString(gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers.%d.id", qi, ai)))
}

// AnswerField returns the value of an arbitrary field of answer ai under
// question qi
func (d *Document) AnswerField(qi, ai int, key string) FieldValue {
	r := gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers.%d.%s", qi, ai, escapeKey(key)))
	if !r.Exists() {
		return FieldValue{}
	}
	if r.Type == gjson.Null {
		return FieldValue{Present: true, Null: true}
	}
	return FieldValue{
		Present:  true,
		IsString: r.Type == gjson.String,
		Text:     r.String(),
	}
}

// SetQuestionID overwrites the identifier of question qi
func (d *Document) SetQuestionID(qi int, id string) error {
	return d.set(fmt.Sprintf("questions.%d.id", qi), id)
}

// SetAnswerID overwrites the identifier of answer ai under question qi
func (d *Document) SetAnswerID(qi, ai int, id string) error {
	return d.set(fmt.Sprintf("questions.%d.possibleAnswers.%d.id", qi, ai), id)
}

func (d *Document) set(path, id string) error {
	raw, err := sjson.SetBytes(d.raw, path, id)
	if err != nil {
		return qerrors.New(qerrors.InternalError, fmt.Sprintf("failed to set %s", path), err)
	}
	d.raw = raw
	return nil
}

// ReorderAnswers rewrites the possibleAnswers array of question qi in the
// order given by perm. perm must be a permutation of [0, AnswerCount).
// Each element keeps its raw bytes; only the sequence order changes.
func (d *Document) ReorderAnswers(qi int, perm []int) error {
	elems := gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers", qi)).Array()
	if len(perm) != len(elems) {
		return qerrors.New(qerrors.InternalError,
			fmt.Sprintf("permutation length %d does not match %d answers of question %d", len(perm), len(elems), qi), nil)
	}

	parts := make([]string, len(perm))
	for i, from := range perm {
		if from < 0 || from >= len(elems) {
			return qerrors.New(qerrors.InternalError,
				fmt.Sprintf("permutation index %d out of range for question %d", from, qi), nil)
		}
		parts[i] = elems[from].Raw
	}

	rawArray := "[" + strings.Join(parts, ",") + "]"
	raw, err := sjson.SetRawBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers", qi), []byte(rawArray))
	if err != nil {
		return qerrors.New(qerrors.InternalError, fmt.Sprintf("failed to reorder answers of question %d", qi), err)
	}
	d.raw = raw
	return nil
}

// CanonicalAnswers returns a canonical serialization (compact, sorted keys)
// of question qi's possibleAnswers array, for order-change detection.
// Questions without an answer array canonicalize to "".
func (d *Document) CanonicalAnswers(qi int) (string, error) {
	r := gjson.GetBytes(d.raw, fmt.Sprintf("questions.%d.possibleAnswers", qi))
	if !r.IsArray() {
		return "", nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return "", err
	}
	// encoding/json marshals map keys in sorted order
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func idString(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return r.String()
}

// escapeKey escapes gjson path metacharacters in a user-supplied field name
func escapeKey(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// WriteOptions controls WriteFile behavior
type WriteOptions struct {
	// SourcePath is the path the document was loaded from; a backup is only
	// taken for true in-place overwrites of it
	SourcePath string
	// NoBackup suppresses backup creation
	NoBackup bool
	// BackupSuffix is appended to SourcePath for the backup copy;
	// empty means ".bak"
	BackupSuffix string
}

// WriteResult reports what WriteFile did
type WriteResult struct {
	Path       string
	BackupPath string // "" when no backup was created
	BackupErr  error  // non-nil when a backup was attempted and failed (non-fatal)
}

// WriteFile serializes the document to path, indented. For an in-place
// overwrite of opts.SourcePath with backups enabled, the source file is
// copied aside first; a failed backup is reported but does not block the
// write, and a created backup is never rolled back.
func (d *Document) WriteFile(path string, opts WriteOptions) (*WriteResult, error) {
	res := &WriteResult{Path: path}

	if path == opts.SourcePath && !opts.NoBackup {
		suffix := opts.BackupSuffix
		if suffix == "" {
			suffix = ".bak"
		}
		bak := opts.SourcePath + suffix
		if err := copyFile(opts.SourcePath, bak); err != nil {
			res.BackupErr = err
		} else {
			res.BackupPath = bak
		}
	}

	data, err := d.Indented()
	if err != nil {
		return res, qerrors.New(qerrors.WriteError, "failed to serialize document", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return res, qerrors.New(qerrors.WriteError, fmt.Sprintf("failed to write %s", path), err)
	}
	return res, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
