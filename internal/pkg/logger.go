package pkg

import "go.uber.org/zap"

// NewLogger builds a development logger in debug mode and a JSON production
// logger otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = ""
		return cfg.Build()
	}
	return zap.NewProduction()
}
