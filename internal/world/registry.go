package world

import (
	"errors"
	"math"
	"sort"

	"exodus-server/internal/domain"
	"exodus-server/internal/engine"
	"exodus-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrCapacity - реестр заполнен, новые сущности не принимаются.
var ErrCapacity = errors.New("entity registry is full")

// bandHeight - высота полосы вертикального индекса.
const bandHeight = 10.0

// Entity - материализованная сущность мира.
type Entity struct {
	Handle   domain.EntityHandle
	Category domain.CategoryID
	Variant  string
	Tag      domain.Tag
	Pos      domain.Position
	Rotation float64
	Layer    int
}

// Registry - фабрика сущностей в памяти. Реализует engine.WorldEntityFactory.
// Не потокобезопасна: живет в горутине сессии.
type Registry struct {
	capacity int
	serial   uint32

	entities map[domain.EntityHandle]*Entity
	byTag    map[domain.Tag]map[domain.EntityHandle]*Entity

	// Вертикальный индекс: номер полосы -> сущности
	bands map[int][]*Entity

	onEvent func(domain.WorldEvent)
}

// NewRegistry создает реестр. capacity <= 0 - без ограничения.
func NewRegistry(capacity int) *Registry {
	r := &Registry{capacity: capacity}
	r.Clear()
	return r
}

// OnEvent подписывает наблюдателя на SPAWNED/DESTROYED.
func (r *Registry) OnEvent(fn func(domain.WorldEvent)) {
	r.onEvent = fn
}

func (r *Registry) Spawn(req engine.SpawnRequest) (domain.EntityHandle, error) {
	if r.capacity > 0 && len(r.entities) >= r.capacity {
		return domain.InvalidHandle, ErrCapacity
	}

	r.serial++
	if r.serial == 0 {
		r.serial = 1
	}

	tag := req.Tag
	if tag == "" {
		tag = req.Category.Tag()
	}

	e := &Entity{
		Handle:   domain.PackHandle(req.Category, req.Layer, r.serial),
		Category: req.Category,
		Variant:  req.Variant,
		Tag:      tag,
		Pos:      req.Pos,
		Rotation: req.Rotation,
		Layer:    req.Layer,
	}

	r.entities[e.Handle] = e
	if r.byTag[tag] == nil {
		r.byTag[tag] = make(map[domain.EntityHandle]*Entity)
	}
	r.byTag[tag][e.Handle] = e
	r.addToBand(e)

	r.emit(domain.WorldEvent{
		Type:     domain.EventSpawned,
		Handle:   e.Handle,
		Category: e.Category,
		Pos:      e.Pos,
	})
	return e.Handle, nil
}

// Destroy удаляет сущность. Повторный вызов - no-op.
func (r *Registry) Destroy(h domain.EntityHandle) {
	e, ok := r.entities[h]
	if !ok {
		return
	}

	delete(r.entities, h)
	delete(r.byTag[e.Tag], h)
	r.removeFromBand(e)

	r.emit(domain.WorldEvent{
		Type:     domain.EventDestroyed,
		Handle:   e.Handle,
		Category: e.Category,
		Pos:      e.Pos,
	})
}

func (r *Registry) QueryByTag(tag domain.Tag) []engine.EntityRecord {
	set := r.byTag[tag]
	out := make([]engine.EntityRecord, 0, len(set))
	for _, e := range set {
		out = append(out, engine.EntityRecord{Handle: e.Handle, Category: e.Category, Pos: e.Pos})
	}
	return out
}

// Get ищет сущность по хэндлу
func (r *Registry) Get(h domain.EntityHandle) (Entity, bool) {
	e, ok := r.entities[h]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// QueryRange возвращает сущности с minY <= y < maxY, отсортированные по высоте.
func (r *Registry) QueryRange(minY, maxY float64) []Entity {
	if maxY <= minY {
		return nil
	}
	var out []Entity
	for band := bandOf(minY); band <= bandOf(maxY); band++ {
		for _, e := range r.bands[band] {
			if e.Pos.Y >= minY && e.Pos.Y < maxY {
				out = append(out, *e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y == out[j].Pos.Y {
			return out[i].Handle < out[j].Handle
		}
		return out[i].Pos.Y < out[j].Pos.Y
	})
	return out
}

// Count - число живых сущностей.
func (r *Registry) Count() int {
	return len(r.entities)
}

// Clear забывает всё без событий (для полного пересоздания мира).
func (r *Registry) Clear() {
	if n := len(r.entities); n > 0 {
		logger.Component("registry").WithFields(logrus.Fields{
			"entities": n,
		}).Debug("Registry cleared")
	}
	r.entities = make(map[domain.EntityHandle]*Entity)
	r.byTag = make(map[domain.Tag]map[domain.EntityHandle]*Entity)
	r.bands = make(map[int][]*Entity)
}

func (r *Registry) emit(ev domain.WorldEvent) {
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

func bandOf(y float64) int {
	return int(math.Floor(y / bandHeight))
}

func (r *Registry) addToBand(e *Entity) {
	b := bandOf(e.Pos.Y)
	r.bands[b] = append(r.bands[b], e)
}

func (r *Registry) removeFromBand(e *Entity) {
	b := bandOf(e.Pos.Y)
	entities := r.bands[b]

	for i, other := range entities {
		if other.Handle == e.Handle {
			// Swap with last, порядок не важен
			lastIdx := len(entities) - 1
			entities[i] = entities[lastIdx]
			entities[lastIdx] = nil
			if lastIdx == 0 {
				delete(r.bands, b)
			} else {
				r.bands[b] = entities[:lastIdx]
			}
			return
		}
	}
}
