package logger

import "go.uber.org/zap"

// New builds a JSON logger on stdout, or a console logger when env is
// "development".
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		config := zap.NewDevelopmentConfig()
		config.OutputPaths = []string{"stdout"}
		return config.Build()
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	return config.Build()
}
