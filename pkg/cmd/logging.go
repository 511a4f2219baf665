package cmd

import (
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDir = "log"

func GetCurrentEnv() string {
	env := os.Getenv("AUTOINVEST_ENV")
	if env == "" {
		env = "development"
	}

	return env
}

func NewLogFormatterWithEnv(env string) log.Formatter {
	switch env {
	case "production", "prod", "stag", "staging":
		// always use json formatter for production and staging
		return &log.JSONFormatter{}
	}

	return &prefixed.TextFormatter{}
}

func isProduction(env string) bool {
	return env == "production" || env == "prod"
}

func setupLogging(env string, debug bool) error {
	logger := log.StandardLogger()
	logger.SetFormatter(NewLogFormatterWithEnv(env))

	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	if !isProduction(env) {
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "autoinvest.log"),
		MaxSize:    100, // megabytes
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	}

	logger.AddHook(
		lfshook.NewHook(
			lfshook.WriterMap{
				log.DebugLevel: writer,
				log.InfoLevel:  writer,
				log.WarnLevel:  writer,
				log.ErrorLevel: writer,
				log.FatalLevel: writer,
			},
			&log.JSONFormatter{},
		),
	)

	return nil
}
