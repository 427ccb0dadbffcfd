package messaging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/zeromicro/go-zero/core/logx"
)

// watermillLogger routes Watermill logs through logx.
type watermillLogger struct {
	serviceName string
	fields      watermill.LogFields
}

func newWatermillLogger(serviceName string) watermill.LoggerAdapter {
	return &watermillLogger{serviceName: serviceName}
}

func (l *watermillLogger) logFields(fields watermill.LogFields) []logx.LogField {
	merged := l.fields.Add(fields)
	out := make([]logx.LogField, 0, len(merged)+1)
	out = append(out, logx.Field("service", l.serviceName))
	for k, v := range merged {
		out = append(out, logx.Field(k, v))
	}
	return out
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	logx.Errorw("[Watermill] "+msg, append(l.logFields(fields), logx.Field("err", err))...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	logx.Infow("[Watermill] "+msg, l.logFields(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	logx.Debugw("[Watermill] "+msg, l.logFields(fields)...)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	logx.Debugw("[Watermill] "+msg, l.logFields(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{
		serviceName: l.serviceName,
		fields:      l.fields.Add(fields),
	}
}
