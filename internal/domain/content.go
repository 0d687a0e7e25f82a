package domain

// PlacedContent - одна успешно размещенная сущность слоя.
type PlacedContent struct {
	Handle   EntityHandle `json:"handle"`
	Category CategoryID   `json:"category"`
	Variant  string       `json:"variant"`
	Pos      Position     `json:"pos"`
	Rotation float64      `json:"rotation"` // Градусы, ненулевая только у астероидов
	LayerY   float64      `json:"layerY"`   // Слой, в котором создана сущность
}

// Layer - результат одноразовой генерации горизонтальной полосы мира.
type Layer struct {
	Index   int             `json:"index"`
	Y       float64         `json:"y"`
	Content []PlacedContent `json:"content"`

	// Dangerous true, если в слое выпала эксклюзивная категория (солнце / черная дыра).
	Dangerous bool `json:"dangerous"`
}

// Count возвращает число сущностей категории в слое.
func (l Layer) Count(category CategoryID) int {
	n := 0
	for _, c := range l.Content {
		if c.Category == category {
			n++
		}
	}
	return n
}
