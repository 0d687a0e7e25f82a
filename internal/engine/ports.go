package engine

import "exodus-server/internal/domain"

// SpawnRequest - все, что фабрике нужно для материализации сущности.
type SpawnRequest struct {
	Variant  string
	Category domain.CategoryID
	Pos      domain.Position
	Rotation float64
	Tag      domain.Tag
	Layer    int
}

// EntityRecord - то, что фабрика отдает при выборке по тегу (текущая позиция, не стартовая).
type EntityRecord struct {
	Handle   domain.EntityHandle
	Category domain.CategoryID
	Pos      domain.Position
}

// WorldEntityFactory материализует и уничтожает сущности мира.
// Destroy уже уничтоженного хэндла - no-op.
type WorldEntityFactory interface {
	Spawn(req SpawnRequest) (domain.EntityHandle, error)
	Destroy(h domain.EntityHandle)
	QueryByTag(tag domain.Tag) []EntityRecord
}

// CameraViewport - видимая область камеры, пересчитывается каждый тик.
type CameraViewport interface {
	// Ready false, пока камера не готова (нет цели). Генерация в это время не идет.
	Ready() bool
	TopY() float64
	BottomY() float64
	// HorizontalBounds возвращает левую и правую границы видимой области.
	HorizontalBounds() (minX, maxX float64)
}

// ScoreFeed - только чтение высоты игрока.
type ScoreFeed interface {
	// PlayerY возвращает высоту игрока; ok=false, если игрока сейчас нет.
	PlayerY() (y float64, ok bool)
}
