package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/domain/model"
)

func TestIsShoppingText(t *testing.T) {
	testCases := []struct {
		text string
		want bool
	}{
		{text: "buy lemons, bread and milk", want: true},
		{text: "Pick up EGGS on the way home", want: true},
		{text: "shop for berries", want: true},
		{text: "fix kitchen sink", want: false},
		{text: "buy a new lamp", want: false},
		{text: "milk is in the fridge", want: false},
		{text: "budget review", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			gt.Value(t, model.IsShoppingText(tc.text)).Equal(tc.want)
		})
	}
}

func TestSplitItems(t *testing.T) {
	t.Run("splits commas and conjunction and strips verb", func(t *testing.T) {
		items := model.SplitItems("buy lemons, bread and milk")
		gt.Value(t, items).Equal([]string{"lemons", "bread", "milk"})
	})

	t.Run("splits newlines and strips articles", func(t *testing.T) {
		items := model.SplitItems("get some apples\nthe cheese\na baguette")
		gt.Value(t, items).Equal([]string{"apples", "cheese", "baguette"})
	})

	t.Run("conjunction inside a word is not a separator", func(t *testing.T) {
		items := model.SplitItems("candy, sandwiches")
		gt.Value(t, items).Equal([]string{"candy", "sandwiches"})
	})

	t.Run("single fragment yields no items", func(t *testing.T) {
		gt.Value(t, model.SplitItems("fix kitchen sink")).Nil()
	})

	t.Run("drops empty and overlong fragments", func(t *testing.T) {
		long := strings.Repeat("x", model.MaxItemLength+1)
		items := model.SplitItems("eggs,, " + long + ", butter")
		gt.Value(t, items).Equal([]string{"eggs", "butter"})
	})

	t.Run("only one surviving fragment yields no items", func(t *testing.T) {
		long := strings.Repeat("y", model.MaxItemLength+1)
		gt.Value(t, model.SplitItems("eggs, "+long)).Nil()
	})
}

func TestHeuristicClassification(t *testing.T) {
	categories := model.DefaultCategorySet()

	t.Run("shopping text", func(t *testing.T) {
		c := model.HeuristicClassification("buy lemons, bread and milk", categories)
		gt.Value(t, c.Category).Equal(model.CategoryGroceries)
		gt.Value(t, c.Items).Equal([]string{"lemons", "bread", "milk"})
	})

	t.Run("non shopping text asserts nothing", func(t *testing.T) {
		c := model.HeuristicClassification("fix kitchen sink", categories)
		gt.Value(t, c.Category).Equal("")
		gt.Value(t, c.Items).Nil()
	})

	t.Run("list without grocery vocabulary still yields items", func(t *testing.T) {
		c := model.HeuristicClassification("paint fence, clean gutters and mow lawn", categories)
		gt.Value(t, c.Category).Equal("")
		gt.Value(t, c.Items).Equal([]string{"paint fence", "clean gutters", "mow lawn"})
	})
}
