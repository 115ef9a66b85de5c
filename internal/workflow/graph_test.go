package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type testState struct {
	visited []string
	count   int
}

func appendNode(name string) NodeFunc[testState] {
	return func(ctx context.Context, s testState) (testState, error) {
		s.visited = append(s.visited, name)
		return s, nil
	}
}

func TestCompile_RequiresEntryPoint(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))

	if _, err := g.Compile(); err == nil {
		t.Fatal("Compile should fail without an entry point")
	}
}

func TestCompile_RejectsUnknownEdgeTarget(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddEdge("a", "missing")
	g.SetEntryPoint("a")

	if _, err := g.Compile(); err == nil {
		t.Fatal("Compile should reject an edge to an unknown node")
	}
}

func TestCompile_RejectsUnknownConditionalTarget(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddConditionalEdges("a", func(testState) string { return "x" }, map[string]string{
		"x": "missing",
	})
	g.SetEntryPoint("a")

	if _, err := g.Compile(); err == nil {
		t.Fatal("Compile should reject a conditional edge to an unknown node")
	}
}

func TestCompile_RejectsMixedEdgeKinds(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddNode("b", appendNode("b"))
	g.AddEdge("a", "b")
	g.AddConditionalEdges("a", func(testState) string { return "x" }, map[string]string{"x": "b"})
	g.SetEntryPoint("a")

	if _, err := g.Compile(); err == nil {
		t.Fatal("Compile should reject a node with both edge kinds")
	}
}

func TestRun_FollowsLinearEdges(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddNode("b", appendNode("b"))
	g.AddNode("c", appendNode("c"))
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", End)
	g.SetEntryPoint("a")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	final, err := r.Run(context.Background(), testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(final.visited) != len(want) {
		t.Fatalf("visited = %v, want %v", final.visited, want)
	}
	for i := range want {
		if final.visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, final.visited[i], want[i])
		}
	}
}

func TestRun_ConditionalRouting(t *testing.T) {
	g := New[testState]()
	g.AddNode("start", appendNode("start"))
	g.AddNode("left", appendNode("left"))
	g.AddNode("right", appendNode("right"))
	g.AddConditionalEdges("start", func(s testState) string {
		if s.count > 0 {
			return "go_right"
		}
		return "go_left"
	}, map[string]string{
		"go_left":  "left",
		"go_right": "right",
	})
	g.AddEdge("left", End)
	g.AddEdge("right", End)
	g.SetEntryPoint("start")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	final, err := r.Run(context.Background(), testState{count: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if final.visited[len(final.visited)-1] != "right" {
		t.Errorf("expected right branch, visited %v", final.visited)
	}
}

func TestRun_BoundedLoop(t *testing.T) {
	g := New[testState]()
	g.AddNode("work", func(ctx context.Context, s testState) (testState, error) {
		s.count++
		return s, nil
	})
	g.AddConditionalEdges("work", func(s testState) string {
		if s.count >= 3 {
			return "done"
		}
		return "again"
	}, map[string]string{
		"again": "work",
		"done":  End,
	})
	g.SetEntryPoint("work")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	final, err := r.Run(context.Background(), testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if final.count != 3 {
		t.Errorf("count = %d, want 3", final.count)
	}
}

func TestRun_NodeErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddNode("b", func(ctx context.Context, s testState) (testState, error) {
		return s, boom
	})
	g.AddEdge("a", "b")
	g.AddEdge("b", End)
	g.SetEntryPoint("a")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, err = r.Run(context.Background(), testState{})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped boom", err)
	}
}

func TestRun_UnmappedLabelFails(t *testing.T) {
	g := New[testState]()
	g.AddNode("a", appendNode("a"))
	g.AddConditionalEdges("a", func(testState) string { return "nowhere" }, map[string]string{
		"somewhere": End,
	})
	g.SetEntryPoint("a")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, err = r.Run(context.Background(), testState{})
	if err == nil {
		t.Fatal("Run should fail on an unmapped routing label")
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := New[testState]()
	g.AddNode("work", func(ctx context.Context, s testState) (testState, error) {
		s.count++
		if s.count == 2 {
			cancel()
		}
		return s, nil
	})
	g.AddConditionalEdges("work", func(s testState) string {
		if s.count >= 100 {
			return "done"
		}
		return "again"
	}, map[string]string{
		"again": "work",
		"done":  End,
	})
	g.SetEntryPoint("work")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	final, err := r.Run(ctx, testState{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	// Cancellation is observed before the next node, not mid-node.
	if final.count != 2 {
		t.Errorf("count = %d, want 2", final.count)
	}
}

func TestRunner_ConcurrentRuns(t *testing.T) {
	g := New[testState]()
	g.AddNode("work", func(ctx context.Context, s testState) (testState, error) {
		s.count++
		s.visited = append(s.visited, fmt.Sprintf("step%d", s.count))
		return s, nil
	})
	g.AddConditionalEdges("work", func(s testState) string {
		if s.count >= 5 {
			return "done"
		}
		return "again"
	}, map[string]string{"again": "work", "done": End})
	g.SetEntryPoint("work")

	r, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	done := make(chan testState, 8)
	for i := 0; i < 8; i++ {
		go func() {
			final, _ := r.Run(context.Background(), testState{})
			done <- final
		}()
	}
	for i := 0; i < 8; i++ {
		final := <-done
		if final.count != 5 {
			t.Errorf("concurrent run count = %d, want 5", final.count)
		}
	}
}
