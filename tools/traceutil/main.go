package main

import (
	"fmt"
	"os"
	"time"

	"exodus-server/internal/domain"
	"exodus-server/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "info":
		t := mustLoad(os.Args[2])
		fmt.Printf("seed:     %d\n", t.Seed)
		fmt.Printf("run:      %d\n", t.Run)
		fmt.Printf("started:  %s\n", time.Unix(t.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("layers:   %d\n", len(t.Layers))
		fmt.Printf("content:  %d\n", t.ContentCount())
		for _, id := range domain.AllCategories {
			n := 0
			for _, l := range t.Layers {
				n += l.Count(id)
			}
			fmt.Printf("  %-10s %d\n", id, n)
		}
	case "diff":
		if len(os.Args) < 4 {
			fmt.Println("Usage: traceutil diff <a.exlt> <b.exlt>")
			return
		}
		a, b := mustLoad(os.Args[2]), mustLoad(os.Args[3])
		if idx, ok := firstDifference(a, b); ok {
			fmt.Printf("traces diverge at layer %d\n", idx)
			os.Exit(1)
		}
		fmt.Println("traces match")
	default:
		printHelp()
	}
}

func mustLoad(path string) *domain.LayerTrace {
	t, err := storage.LoadFile(path)
	if err != nil {
		fmt.Printf("Cannot load %s: %v\n", path, err)
		os.Exit(2)
	}
	return t
}

// firstDifference - индекс первого расходящегося слоя в общем префиксе.
// Хэндлы не сравниваются: их серийные номера зависят от фабрики.
func firstDifference(a, b *domain.LayerTrace) (int, bool) {
	n := len(a.Layers)
	if len(b.Layers) < n {
		n = len(b.Layers)
	}
	for i := 0; i < n; i++ {
		la, lb := a.Layers[i], b.Layers[i]
		if la.Y != lb.Y || la.Dangerous != lb.Dangerous || len(la.Content) != len(lb.Content) {
			return i, true
		}
		for j := range la.Content {
			ca, cb := la.Content[j], lb.Content[j]
			if ca.Category != cb.Category || ca.Variant != cb.Variant || ca.Pos != cb.Pos || ca.Rotation != cb.Rotation {
				return i, true
			}
		}
	}
	return 0, false
}

func printHelp() {
	fmt.Println(`Trace Utility - просмотр и сравнение лент слоев (.exlt)
Commands:
  info <file>            - сид, число слоев и сущностей по категориям
  diff <a> <b>           - сравнить генерацию двух лент (общий префикс)`)
}
