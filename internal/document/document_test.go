package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qerrors "qtk/internal/errors"
)

const sampleDoc = `{
  "title": "Survey",
  "questions": [
    {
      "id": "q-1",
      "text": "First?",
      "possibleAnswers": [
        {"id": "a-1", "answer": "yes"},
        {"id": "a-2", "answer": "no"}
      ]
    },
    {
      "id": "q-2",
      "text": "Second?"
    }
  ]
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid document", sampleDoc, false},
		{"empty questions array", `{"questions": []}`, false},
		{"absent questions field", `{"title": "x"}`, false},
		{"invalid JSON", `{"questions": [`, true},
		{"questions is an object", `{"questions": {}}`, true},
		{"questions is a string", `{"questions": "nope"}`, true},
		{"root is an array", `[1, 2]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if tt.wantErr && err == nil {
				t.Fatal("Parse should have failed")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if tt.wantErr && !qerrors.IsFormat(err) {
				t.Errorf("error code = %v, want FORMAT_ERROR", err)
			}
		})
	}
}

func TestQuestionAccessors(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := doc.QuestionCount(); got != 2 {
		t.Errorf("QuestionCount() = %d, want 2", got)
	}
	if got := doc.QuestionID(0); got != "q-1" {
		t.Errorf("QuestionID(0) = %q, want %q", got, "q-1")
	}
	if !doc.HasAnswers(0) {
		t.Error("HasAnswers(0) should be true")
	}
	if doc.HasAnswers(1) {
		t.Error("HasAnswers(1) should be false")
	}
	if got := doc.AnswerCount(0); got != 2 {
		t.Errorf("AnswerCount(0) = %d, want 2", got)
	}
	if got := doc.AnswerCount(1); got != 0 {
		t.Errorf("AnswerCount(1) = %d, want 0", got)
	}
	if got := doc.AnswerID(0, 1); got != "a-2" {
		t.Errorf("AnswerID(0, 1) = %q, want %q", got, "a-2")
	}
}

func TestMissingIdentifiers(t *testing.T) {
	input := `{"questions": [
		{"text": "no id"},
		{"id": null},
		{"id": ""},
		{"id": "ok"}
	]}`
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for qi := 0; qi < 3; qi++ {
		if got := doc.QuestionID(qi); got != "" {
			t.Errorf("QuestionID(%d) = %q, want empty", qi, got)
		}
	}
	if got := doc.QuestionID(3); got != "ok" {
		t.Errorf("QuestionID(3) = %q, want %q", got, "ok")
	}
}

func TestAnswerField(t *testing.T) {
	input := `{"questions": [{"possibleAnswers": [
		{"id": "a", "answer": "text", "weight": 42, "flag": true},
		{"id": "b", "answer": null},
		{"id": "c"}
	]}]}`
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name string
		ai   int
		key  string
		want FieldValue
	}{
		{"string field", 0, "answer", FieldValue{Present: true, IsString: true, Text: "text"}},
		{"number field", 0, "weight", FieldValue{Present: true, Text: "42"}},
		{"bool field", 0, "flag", FieldValue{Present: true, Text: "true"}},
		{"null field", 1, "answer", FieldValue{Present: true, Null: true}},
		{"absent field", 2, "answer", FieldValue{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.AnswerField(0, tt.ai, tt.key); got != tt.want {
				t.Errorf("AnswerField = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSetIdentifiers(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := doc.SetQuestionID(1, "q-new"); err != nil {
		t.Fatalf("SetQuestionID failed: %v", err)
	}
	if got := doc.QuestionID(1); got != "q-new" {
		t.Errorf("QuestionID(1) = %q, want %q", got, "q-new")
	}

	if err := doc.SetAnswerID(0, 0, "a-new"); err != nil {
		t.Fatalf("SetAnswerID failed: %v", err)
	}
	if got := doc.AnswerID(0, 0); got != "a-new" {
		t.Errorf("AnswerID(0, 0) = %q, want %q", got, "a-new")
	}

	// Untouched fields survive the mutation
	if got := doc.QuestionID(0); got != "q-1" {
		t.Errorf("QuestionID(0) = %q, want %q", got, "q-1")
	}
	if !strings.Contains(string(doc.Raw()), `"text": "First?"`) {
		t.Error("untouched question text should survive identifier mutation")
	}
}

func TestReorderAnswers(t *testing.T) {
	doc, err := Parse([]byte(`{"questions": [{"possibleAnswers": [
		{"id": "a"}, {"id": "b"}, {"id": "c"}
	]}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := doc.ReorderAnswers(0, []int{2, 0, 1}); err != nil {
		t.Fatalf("ReorderAnswers failed: %v", err)
	}

	want := []string{"c", "a", "b"}
	for ai, id := range want {
		if got := doc.AnswerID(0, ai); got != id {
			t.Errorf("AnswerID(0, %d) = %q, want %q", ai, got, id)
		}
	}

	if err := doc.ReorderAnswers(0, []int{0, 1}); err == nil {
		t.Error("ReorderAnswers should reject a short permutation")
	}
	if err := doc.ReorderAnswers(0, []int{0, 1, 5}); err == nil {
		t.Error("ReorderAnswers should reject an out-of-range index")
	}
}

func TestCanonicalAnswers(t *testing.T) {
	// Same content, different key order and formatting
	a, err := Parse([]byte(`{"questions": [{"possibleAnswers": [{"id": "a", "answer": "x"}]}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := Parse([]byte(`{"questions":[{"possibleAnswers":[{"answer":"x","id":"a"}]}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ca, err := a.CanonicalAnswers(0)
	if err != nil {
		t.Fatalf("CanonicalAnswers failed: %v", err)
	}
	cb, err := b.CanonicalAnswers(0)
	if err != nil {
		t.Fatalf("CanonicalAnswers failed: %v", err)
	}
	if ca != cb {
		t.Errorf("canonical forms differ: %q vs %q", ca, cb)
	}

	c, err := Parse([]byte(`{"questions": [{"text": "no answers"}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cc, err := c.CanonicalAnswers(0)
	if err != nil {
		t.Fatalf("CanonicalAnswers failed: %v", err)
	}
	if cc != "" {
		t.Errorf("CanonicalAnswers without answers = %q, want empty", cc)
	}
}

func TestRoundTripFieldOrder(t *testing.T) {
	// Keys deliberately not in alphabetical order
	input := `{"zeta": 1, "questions": [{"id": "q-1", "beta": 2, "alpha": 3}], "omega": 4}`
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := doc.Indented()
	if err != nil {
		t.Fatalf("Indented failed: %v", err)
	}

	s := string(out)
	order := []string{`"zeta"`, `"questions"`, `"beta"`, `"alpha"`, `"omega"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("output is missing %s", key)
		}
		if idx < last {
			t.Errorf("%s appears out of original order", key)
		}
		last = idx
	}
}

func TestWriteFile(t *testing.T) {
	t.Run("in-place write creates backup", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "questions.json")
		if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
			t.Fatal(err)
		}

		doc, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}

		res, err := doc.WriteFile(path, WriteOptions{SourcePath: path})
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if res.BackupPath != path+".bak" {
			t.Errorf("BackupPath = %q, want %q", res.BackupPath, path+".bak")
		}

		bak, err := os.ReadFile(path + ".bak")
		if err != nil {
			t.Fatalf("backup not readable: %v", err)
		}
		if string(bak) != sampleDoc {
			t.Error("backup should hold the original content")
		}
	})

	t.Run("no-backup suppresses backup", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "questions.json")
		if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
			t.Fatal(err)
		}

		doc, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}

		res, err := doc.WriteFile(path, WriteOptions{SourcePath: path, NoBackup: true})
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if res.BackupPath != "" {
			t.Errorf("BackupPath = %q, want empty", res.BackupPath)
		}
		if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
			t.Error("backup file should not exist")
		}
	})

	t.Run("writing to a new path takes no backup", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "questions.json")
		if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
			t.Fatal(err)
		}

		doc, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}

		out := filepath.Join(dir, "fixed.json")
		res, err := doc.WriteFile(out, WriteOptions{SourcePath: path})
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if res.BackupPath != "" {
			t.Errorf("BackupPath = %q, want empty", res.BackupPath)
		}

		reloaded, err := LoadFile(out)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if got := reloaded.QuestionID(0); got != "q-1" {
			t.Errorf("reloaded QuestionID(0) = %q, want %q", got, "q-1")
		}
	})

	t.Run("unwritable destination fails", func(t *testing.T) {
		doc, err := Parse([]byte(sampleDoc))
		if err != nil {
			t.Fatal(err)
		}
		_, err = doc.WriteFile(filepath.Join(t.TempDir(), "missing", "out.json"), WriteOptions{NoBackup: true})
		if err == nil {
			t.Fatal("WriteFile should have failed")
		}
	})
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("LoadFile should have failed")
	}
	if !qerrors.IsFormat(err) {
		t.Errorf("error = %v, want FORMAT_ERROR", err)
	}
}
