package usecase

import "github.com/secmon-lab/olive/pkg/domain/model"

// BuildClassifyMessages is exported for testing
func BuildClassifyMessages(c *Classifier, text string) ([]model.Message, error) {
	return c.buildMessages(text)
}
