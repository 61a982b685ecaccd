package logger

// NopLogger discards everything
type NopLogger struct{}

// NewNopLogger creates a logger that drops all entries
func NewNopLogger() Logger {
	return NopLogger{}
}

func (NopLogger) Debug(string) {}
func (NopLogger) Info(string) {}
func (NopLogger) Warn(string) {}
func (NopLogger) Error(string) {}
func (n NopLogger) WithField(string, interface{}) Logger { return n }
func (n NopLogger) WithFields(map[string]interface{}) Logger { return n }
func (n NopLogger) WithError(error) Logger { return n }
func (NopLogger) DebugWithFields(string, map[string]interface{}) {}
func (NopLogger) InfoWithFields(string, map[string]interface{}) {}
func (NopLogger) WarnWithFields(string, map[string]interface{}) {}
func (NopLogger) ErrorWithFields(string, map[string]interface{}) {}
