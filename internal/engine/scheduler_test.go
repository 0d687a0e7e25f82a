package engine

import (
	"container/heap"
	"testing"
)

func TestTaskQueue(t *testing.T) {
	pq := make(TaskQueue, 0)
	heap.Init(&pq)

	t1 := &TaskItem{Task: &ScheduledTask{Name: "t1", order: 0}, Due: 10}
	t2 := &TaskItem{Task: &ScheduledTask{Name: "t2", order: 1}, Due: 5}
	t3 := &TaskItem{Task: &ScheduledTask{Name: "t3", order: 2}, Due: 20}

	heap.Push(&pq, t1)
	heap.Push(&pq, t2)
	heap.Push(&pq, t3)

	if pq.Len() != 3 {
		t.Errorf("Expected length 3, got %d", pq.Len())
	}

	// First pop should be t2 (Due 5)
	first := heap.Pop(&pq).(*TaskItem)
	if first.Task.Name != "t2" {
		t.Errorf("Expected t2, got %s", first.Task.Name)
	}

	// Move t1 later (10 -> 30). New top should be t3.
	pq.Update(t1, 30)

	second := heap.Pop(&pq).(*TaskItem)
	if second.Task.Name != "t3" {
		t.Errorf("Expected t3 (Due 20), got %s", second.Task.Name)
	}

	third := heap.Pop(&pq).(*TaskItem)
	if third.Task.Name != "t1" {
		t.Errorf("Expected t1 (Due 30), got %s", third.Task.Name)
	}
}

func TestTaskScheduler_FirstRunAfterInterval(t *testing.T) {
	s := NewTaskScheduler()
	runs := 0
	s.Every("cleanup", 5, func() { runs++ })

	// 4.9 единицы: еще рано
	for i := 0; i < 49; i++ {
		s.Advance(0.1)
	}
	if runs != 0 {
		t.Fatalf("Task ran too early: %d runs at t=%v", runs, s.Now())
	}

	s.Advance(0.2)
	if runs != 1 {
		t.Fatalf("Expected 1 run at t=%v, got %d", s.Now(), runs)
	}

	// Большой шаг покрывает два интервала
	s.Advance(10)
	if runs != 3 {
		t.Errorf("Expected 3 runs at t=%v, got %d", s.Now(), runs)
	}
}

func TestTaskScheduler_OrderAndRemove(t *testing.T) {
	s := NewTaskScheduler()
	var order []string
	s.Every("a", 2, func() { order = append(order, "a") })
	s.Every("b", 2, func() { order = append(order, "b") })
	s.Every("c", 3, func() { order = append(order, "c") })

	s.Advance(2)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("Equal due tasks must run in registration order, got %v", order)
	}

	s.Remove("a")
	order = nil
	s.Advance(2) // t=4: c(3), b(4)
	if len(order) != 2 || order[0] != "c" || order[1] != "b" {
		t.Errorf("Expected [c b], got %v", order)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 tasks, got %d", s.Len())
	}
}

func TestTaskScheduler_Reset(t *testing.T) {
	s := NewTaskScheduler()
	runs := 0
	s.Every("cleanup", 5, func() { runs++ })
	s.Advance(4)
	s.Reset()

	s.Advance(4)
	if runs != 0 {
		t.Errorf("Reset must restart the full interval, got %d runs", runs)
	}
	if s.Len() != 1 || s.queue[0].Due != 5 {
		t.Errorf("Next due: got %+v, want 5", s.DebugDump())
	}
}
