package logger

import (
	"go.uber.org/zap"
)

var Log = zap.NewNop()

func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return
	}

	Log = l
}

func Sync() {
	_ = Log.Sync()
}
