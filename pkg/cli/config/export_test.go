package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, dir string) *Storage {
	return &Storage{
		backend: backend,
		dir:     dir,
	}
}

// NewCompletionForTest creates a Completion config for testing purposes
func NewCompletionForTest(url string, timeout time.Duration) *Completion {
	return &Completion{
		url:     url,
		timeout: timeout,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn, env string) *Sentry {
	return &Sentry{
		dsn: dsn,
		env: env,
	}
}

// NewAppConfigForTest creates an AppConfig pointing at path
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}
