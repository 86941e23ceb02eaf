package logging

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/pbaille/kalorien/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

// TimestampFormat is used by the text formatter.
const TimestampFormat = "2006-01-02 15:04:05"

const hostName = "kalorien"

// New builds the application logger. Output goes to cfg.File (appended) or
// stdout. Shipping hooks that cannot be set up are reported on the logger
// and skipped. The returned func releases the log file.
func New(cfg config.LogConfig) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	})

	closeFn := func() error { return nil }
	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		closeFn = f.Close
	} else {
		logger.SetOutput(os.Stdout)
	}

	if cfg.ELK.Enable {
		if err := addElasticHook(logger, cfg.ELK, level); err != nil {
			logger.WithError(err).Warn("elasticsearch log hook disabled")
		}
	}
	if cfg.Logstash.Enable {
		conn, err := addLogstashHook(logger, cfg.Logstash)
		if err != nil {
			logger.WithError(err).Warn("logstash log hook disabled")
		} else {
			prev := closeFn
			closeFn = func() error {
				conn.Close()
				return prev()
			}
		}
	}

	return logger, closeFn, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func addElasticHook(logger *logrus.Logger, cfg config.ELKConfig, level logrus.Level) error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}
	hook, err := elogrus.NewAsyncElasticHook(client, hostName, level, cfg.Index)
	if err != nil {
		return fmt.Errorf("create elasticsearch hook: %w", err)
	}
	logger.Hooks.Add(hook)
	return nil
}

func addLogstashHook(logger *logrus.Logger, cfg config.LogstashConfig) (net.Conn, error) {
	conn, err := net.Dial("udp", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial logstash: %w", err)
	}
	logType := cfg.Type
	if logType == "" {
		logType = hostName
	}
	hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": logType}))
	logger.Hooks.Add(hook)
	return conn, nil
}
