package firestore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/repository/firestore"
)

func TestSetRejectsOversizedValue(t *testing.T) {
	var f firestore.Firestore
	err := f.Set(context.Background(), "olive:notes", make([]byte, firestore.MaxValueSize+1))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, firestore.ErrValueTooLarge)).True()
}
