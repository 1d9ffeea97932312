package notes

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitlog/internal/models"
)

func TestRenderTerminal(t *testing.T) {
	got := Render("title\n[] milk\n[x] eggs\nend")
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "title" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "☐ milk") {
		t.Errorf("line 1 = %q, want unchecked box", lines[1])
	}
	if !strings.HasPrefix(lines[2], "☑ ") || !strings.Contains(lines[2], "eggs") {
		t.Errorf("line 2 = %q, want checked box", lines[2])
	}
	if Render("") != "" {
		t.Error("empty note should render empty")
	}
}

func TestRenderTerminalKeepsMarkupCharacters(t *testing.T) {
	if got := Render("a < b & c"); got != "a < b & c" {
		t.Errorf("terminal output should not be HTML escaped, got %q", got)
	}
}

func TestSelectedTodoCycles(t *testing.T) {
	m := New(nil, []models.Note{{ID: "n1", Text: "[] a\ntext\n[x] b"}}, 40, 10)

	line, ok := m.SelectedTodo()
	if !ok || line.Index != 0 {
		t.Fatalf("first todo = %+v, %v", line, ok)
	}

	m.todo++
	m.clampTodo()
	if line, _ = m.SelectedTodo(); line.Index != 2 {
		t.Errorf("second todo index = %d, want 2", line.Index)
	}

	m.todo++
	m.clampTodo()
	if line, _ = m.SelectedTodo(); line.Index != 0 {
		t.Errorf("todo selection should wrap, got %d", line.Index)
	}
}

func TestSelectedOrdersPinnedFirst(t *testing.T) {
	pinned := []models.Note{{ID: "p1", Pinned: true}}
	regular := []models.Note{{ID: "r1"}, {ID: "r2"}}
	m := New(pinned, regular, 40, 10)

	var ids []string
	for i := 0; i < 3; i++ {
		m.cursor = i
		n, ok := m.Selected()
		if !ok {
			t.Fatalf("no note at %d", i)
		}
		ids = append(ids, n.ID)
	}
	if strings.Join(ids, ",") != "p1,r1,r2" {
		t.Errorf("order = %v", ids)
	}

	m.SetNotes(nil, nil)
	if _, ok := m.Selected(); ok {
		t.Error("empty pane should have no selection")
	}
}
