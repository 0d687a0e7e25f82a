package engine

import "container/heap"

// TaskItem обертка для задачи в очереди приоритетов
type TaskItem struct {
	Task  *ScheduledTask
	Due   float64 // Игровое время следующего запуска. Чем меньше, тем раньше.
	Index int     // Индекс в куче (нужен для update)
}

// TaskQueue реализует heap.Interface по времени запуска
type TaskQueue []*TaskItem

func (pq TaskQueue) Len() int { return len(pq) }

func (pq TaskQueue) Less(i, j int) bool {
	if pq[i].Due == pq[j].Due {
		// При равном времени - порядок регистрации
		return pq[i].Task.order < pq[j].Task.order
	}
	return pq[i].Due < pq[j].Due
}

func (pq TaskQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TaskQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TaskItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TaskQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// Update переносит задачу на новое время
func (pq *TaskQueue) Update(item *TaskItem, due float64) {
	item.Due = due
	heap.Fix(pq, item.Index)
}
