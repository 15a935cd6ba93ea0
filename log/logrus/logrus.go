package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/codecstack"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ codecstack.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f codecstack.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f codecstack.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f codecstack.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f codecstack.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
