package domain

// LayerTrace - лента сгенерированных слоев одного забега.
// По ней можно сверить генерацию для одного и того же сида.
type LayerTrace struct {
	Seed      int64   `json:"seed"`
	Timestamp int64   `json:"timestamp"` // Unix seconds начала забега
	Run       int     `json:"run"`
	Layers    []Layer `json:"layers"`
}

// Append добавляет копию слоя (контент не разделяется с генератором).
func (t *LayerTrace) Append(l Layer) {
	content := make([]PlacedContent, len(l.Content))
	copy(content, l.Content)
	l.Content = content
	t.Layers = append(t.Layers, l)
}

// ContentCount - сколько всего сущностей в ленте.
func (t *LayerTrace) ContentCount() int {
	n := 0
	for _, l := range t.Layers {
		n += len(l.Content)
	}
	return n
}
