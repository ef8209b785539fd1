package pqueue

import "testing"

func TestAddPopOrdersByPriority(t *testing.T) {
	q := New[string]()
	q.Add("b", 2)
	q.Add("a", 1)
	q.Add("c", 3)

	order := []string{}
	for q.Len() > 0 {
		item, err := q.Pop()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		order = append(order, item)
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if order[i] != w {
			t.Errorf("position %d: got %s, want %s", i, order[i], w)
		}
	}
}

func TestAddReplacesPriorityNoDuplicate(t *testing.T) {
	q := New[string]()
	q.Add("x", 5)
	q.Add("x", 1)

	if q.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", q.Len())
	}
	item, err := q.Pop()
	if err != nil || item != "x" {
		t.Fatalf("expected x, got %v err=%v", item, err)
	}
	if _, err := q.Pop(); err == nil {
		t.Fatal("expected empty after single entry popped")
	}
}

func TestTiesBreakByInsertionOrder(t *testing.T) {
	q := New[int]()
	q.Add(1, 1)
	q.Add(2, 1)
	q.Add(3, 1)

	for _, want := range []int{1, 2, 3} {
		got, err := q.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("want %d, got %d", want, got)
		}
	}
}

func TestRemoveTombstonesEntry(t *testing.T) {
	q := New[string]()
	q.Add("a", 1)
	q.Add("b", 2)
	q.Remove("a")

	if q.Len() != 1 {
		t.Fatalf("expected 1 after remove, got %d", q.Len())
	}
	item, err := q.Pop()
	if err != nil || item != "b" {
		t.Fatalf("expected b, got %v err=%v", item, err)
	}
}

func TestPopEmptyReturnsErrEmpty(t *testing.T) {
	q := New[int]()
	if _, err := q.Pop(); err == nil {
		t.Fatal("expected ErrEmpty")
	}
}
