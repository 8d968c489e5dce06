package classifier

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := New()
	n, err := c.Train(nil)
	require.NoError(t, err)
	require.Positive(t, n)
	return c
}

func TestClassify_BeforeTraining(t *testing.T) {
	c := New()
	_, err := c.Classify(Transaction{Description: "Starbucks coffee"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestTrain_DefaultSet(t *testing.T) {
	c := New()
	n, err := c.Train(nil)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultTrainingSet()), n)
	assert.True(t, c.Trained())
	assert.Equal(t, n, c.ExampleCount())
}

func TestTrain_RejectsUnknownCategory(t *testing.T) {
	c := New()
	_, err := c.Train([]Example{{Text: "mystery purchase", Category: "not_a_real_category"}})
	require.Error(t, err)

	var ice *InvalidCategoryError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, "not_a_real_category", ice.Key)
	assert.False(t, c.Trained())
}

func TestClassify_StarbucksIsMeals(t *testing.T) {
	c := trainedClassifier(t)

	// Deterministic: same training data, same answer, every time.
	for i := 0; i < 3; i++ {
		res, err := c.Classify(Transaction{Description: "Starbucks coffee"})
		require.NoError(t, err)
		assert.Equal(t, "meals", res.Category)
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 1.0)
	}
}

func TestClassify_AlternativesExcludeChosen(t *testing.T) {
	c := trainedClassifier(t)

	res, err := c.Classify(Transaction{Description: "Uber ride downtown", Merchant: "Uber"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Alternatives), 3)
	for _, alt := range res.Alternatives {
		assert.NotEqual(t, res.Category, alt.Category)
		assert.NotEmpty(t, alt.Name)
		assert.GreaterOrEqual(t, alt.Confidence, 0.0)
		assert.LessOrEqual(t, alt.Confidence, 1.0)
	}
	// Alternatives come back ranked best-first.
	for i := 1; i < len(res.Alternatives); i++ {
		assert.GreaterOrEqual(t, res.Alternatives[i-1].Confidence, res.Alternatives[i].Confidence)
	}
}

func TestClassify_MetadataEchoesInput(t *testing.T) {
	c := trainedClassifier(t)

	res, err := c.Classify(Transaction{Description: "Zoom pro subscription", Merchant: "Zoom", Amount: 14.99})
	require.NoError(t, err)
	assert.Equal(t, "Zoom pro subscription", res.Metadata.Description)
	assert.Equal(t, "Zoom", res.Metadata.Merchant)
	assert.InDelta(t, 14.99, res.Metadata.Amount, 0.001)
	assert.Equal(t, "zoom pro subscription zoom", res.Metadata.Text)
}

func TestAddExample_UnknownCategoryLeavesStateUntouched(t *testing.T) {
	c := trainedClassifier(t)
	before := c.ExampleCount()

	err := c.AddExample("x", "not_a_real_category", 0)
	require.Error(t, err)

	var ice *InvalidCategoryError
	assert.ErrorAs(t, err, &ice)
	assert.Equal(t, before, c.ExampleCount())
}

func TestAddExample_RefitsAndLearns(t *testing.T) {
	c := trainedClassifier(t)

	require.NoError(t, c.AddExample("Figma design tool license", "software", 12))
	require.NoError(t, c.AddExample("Figma annual plan", "software", 144))

	res, err := c.Classify(Transaction{Description: "Figma license renewal"})
	require.NoError(t, err)
	assert.Equal(t, "software", res.Category)
}

func TestAddExample_OnUntrainedClassifierTrainsIt(t *testing.T) {
	c := New()
	require.NoError(t, c.AddExample("Starbucks latte", "meals", 5))
	assert.True(t, c.Trained())
}

func TestStats(t *testing.T) {
	c := New()
	_, err := c.Train([]Example{
		{Text: "Starbucks coffee", Category: "meals", Amount: 5},
		{Text: "Chipotle burrito", Category: "meals", Amount: 11},
		{Text: "Zoom subscription", Category: "software", Amount: 15},
	})
	require.NoError(t, err)

	stats := c.Stats()
	require.Contains(t, stats, "meals")
	assert.Equal(t, 2, stats["meals"].Count)
	assert.InDelta(t, 16, stats["meals"].TotalAmount, 0.001)
	assert.InDelta(t, 8, stats["meals"].AverageAmount, 0.001)

	assert.Equal(t, 1, stats["software"].Count)
	assert.Zero(t, stats["travel"].Count)
	assert.Zero(t, stats["travel"].AverageAmount)

	// Every taxonomy entry is present even with no examples.
	assert.Len(t, stats, len(DefaultCategories()))
}

func TestCategories_StableOrder(t *testing.T) {
	c := New()
	cats := c.Categories()
	require.Len(t, cats, 8)
	assert.Equal(t, "office_supplies", cats[0].Key)
	assert.Equal(t, "professional_services", cats[7].Key)
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		desc     string
		merchant string
		want     string
	}{
		{"McDonald's lunch", "", "mcdonald s lunch"},
		{"Coffee  &  bagel!!", "Corner Café", "coffee bagel corner café"},
		{"", "", ""},
		{"UPPER case", "MiXeD", "upper case mixed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.desc, tt.merchant))
	}
}

func TestConcurrentClassifyDuringLoad(t *testing.T) {
	// Load swaps model and taxonomy together; a classification racing
	// with it must see a consistent pair.
	path := filepath.Join(t.TempDir(), "model.json")
	seed := trainedClassifier(t)
	require.NoError(t, seed.Save(path))

	c := New()
	require.NoError(t, c.Load(path))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.NoError(t, c.Load(path))
				return
			}
			res, err := c.Classify(Transaction{Description: "Starbucks coffee"})
			if assert.NoError(t, err) {
				assert.NotEmpty(t, res.Category)
			}
		}(i)
	}
	wg.Wait()
}

func TestConcurrentClassifyDuringTraining(t *testing.T) {
	c := trainedClassifier(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = c.AddExample("Delta flight change fee", "travel", 75)
				return
			}
			res, err := c.Classify(Transaction{Description: "Starbucks coffee"})
			assert.NoError(t, err)
			assert.NotEmpty(t, res.Category)
		}(i)
	}
	wg.Wait()
}
