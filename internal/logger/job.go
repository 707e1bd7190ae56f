package logger

import (
	"go.uber.org/zap"
)

// JobInfo identifies a queue delivery for log correlation
type JobInfo struct {
	Stream       string
	Consumer     string
	Subject      string
	Sequence     uint64
	NumDelivered uint64
}

// Fields returns the zap fields describing the delivery
func (j JobInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("stream", j.Stream),
		zap.String("consumer", j.Consumer),
		zap.String("subject", j.Subject),
		zap.Uint64("sequence", j.Sequence),
		zap.Uint64("num_delivered", j.NumDelivered),
	}
}
