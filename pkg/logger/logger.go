package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего сервера.
var Log *logrus.Logger

// Init инициализирует глобальный логгер.
// Вызывается один раз в main.go и в TestMain пакетов.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput то же, что Init, но пишет в указанный writer (удобно в тестах).
func InitWithOutput(w io.Writer) {
	Log = logrus.New()

	// 1. Уровень из окружения. По умолчанию "info", для генератора слоев полезен "debug".
	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" для продакшена, текст для разработки.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   w == os.Stdout,
		})
	}

	Log.SetOutput(w)
}

// Component возвращает логгер с полем component, чтобы не повторять его в каждом вызове.
func Component(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", name)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
