package logger

// TestLogger is a no-op Logger for use in tests
type TestLogger struct{}

// NewTestLogger returns a Logger that discards everything
func NewTestLogger() Logger {
	return &TestLogger{}
}

func (t *TestLogger) Debug(msg string) {}
func (t *TestLogger) Info(msg string)  {}
func (t *TestLogger) Warn(msg string)  {}
func (t *TestLogger) Error(msg string) {}
func (t *TestLogger) Fatal(msg string) {}

func (t *TestLogger) WithField(key string, value interface{}) Logger          { return t }
func (t *TestLogger) WithFields(fields map[string]interface{}) Logger         { return t }
func (t *TestLogger) WithError(err error) Logger                              { return t }
func (t *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (t *TestLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (t *TestLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (t *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
