package engine

import (
	"container/heap"

	"exodus-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ScheduledTask - повторяющаяся задача с фиксированным интервалом игрового времени.
type ScheduledTask struct {
	Name     string
	Interval float64
	Run      func()

	order int
}

// TaskScheduler вызывает задачи из цикла симуляции. Своих горутин нет:
// задачи выполняются внутри Advance, между тиками.
type TaskScheduler struct {
	now     float64
	queue   TaskQueue
	itemMap map[string]*TaskItem
	added   int
}

func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{
		queue:   make(TaskQueue, 0),
		itemMap: make(map[string]*TaskItem),
	}
}

// Every регистрирует задачу. Первый запуск - через один интервал.
func (s *TaskScheduler) Every(name string, interval float64, run func()) {
	if interval <= 0 || run == nil {
		return
	}
	s.Remove(name)

	task := &ScheduledTask{Name: name, Interval: interval, Run: run, order: s.added}
	s.added++

	item := &TaskItem{Task: task, Due: s.now + interval}
	heap.Push(&s.queue, item)
	s.itemMap[name] = item

	logger.Component("scheduler").WithFields(logrus.Fields{
		"task":     name,
		"interval": interval,
	}).Debug("Task scheduled")
}

// Remove снимает задачу с расписания.
func (s *TaskScheduler) Remove(name string) {
	if item, ok := s.itemMap[name]; ok {
		heap.Remove(&s.queue, item.Index)
		delete(s.itemMap, name)
	}
}

// Advance сдвигает часы на dt и выполняет все созревшие задачи.
// Если dt покрывает несколько интервалов, задача выполнится несколько раз.
func (s *TaskScheduler) Advance(dt float64) int {
	if dt > 0 {
		s.now += dt
	}

	ran := 0
	for s.queue.Len() > 0 {
		item := s.queue[0]
		if item.Due > s.now {
			break
		}
		item.Task.Run()
		ran++
		s.queue.Update(item, item.Due+item.Task.Interval)
	}
	return ran
}

// Reset обнуляет часы, задачи остаются и снова ждут полный интервал.
func (s *TaskScheduler) Reset() {
	s.now = 0
	for _, item := range s.queue {
		item.Due = item.Task.Interval
	}
	heap.Init(&s.queue)
}

func (s *TaskScheduler) Now() float64 {
	return s.now
}

func (s *TaskScheduler) Len() int {
	return s.queue.Len()
}

// DebugDump возвращает снимок расписания для отладки
func (s *TaskScheduler) DebugDump() []map[string]interface{} {
	result := make([]map[string]interface{}, 0)
	for _, item := range s.queue {
		result = append(result, map[string]interface{}{
			"task":     item.Task.Name,
			"interval": item.Task.Interval,
			"due":      item.Due,
		})
	}
	return result
}
