// Package classifier assigns accounting categories to transaction
// descriptions with a trainable naive Bayes model over a fixed
// taxonomy.
package classifier

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jbrukh/bayesian"
	"golang.org/x/text/unicode/norm"
)

// defaultConfidence is reported when the model yields no usable score
// for the chosen category. A documented placeholder, not a probability.
const defaultConfidence = 0.5

const maxAlternatives = 3

// Transaction is the classification input.
type Transaction struct {
	Description string  `json:"description"`
	Merchant    string  `json:"merchant,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
}

// Alternative is a non-chosen category with its score.
type Alternative struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Name       string  `json:"name"`
}

// Metadata echoes the classification inputs for audit trails.
type Metadata struct {
	Text        string  `json:"text"`
	Amount      float64 `json:"amount"`
	Merchant    string  `json:"merchant"`
	Description string  `json:"description"`
}

// Result is one classification outcome.
type Result struct {
	Category     string        `json:"category"`
	Confidence   float64       `json:"confidence"`
	Alternatives []Alternative `json:"alternatives"`
	Metadata     Metadata      `json:"metadata"`
}

// CategoryStats summarizes accumulated training data per category.
type CategoryStats struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"totalAmount"`
	AverageAmount float64 `json:"averageAmount"`
}

// Classifier is the process-wide transaction categorizer. Reads may
// run concurrently; training writes are serialized behind the mutex
// and refits build a fresh model that is swapped in whole, so readers
// never observe a half-fitted model.
type Classifier struct {
	mu         sync.RWMutex
	model      *bayesian.Classifier
	classes    []bayesian.Class
	categories []Category
	byKey      map[string]Category
	examples   []Example
	trained    bool
}

// New creates an untrained classifier over the default taxonomy.
func New() *Classifier {
	c := &Classifier{}
	c.setCategories(DefaultCategories())
	return c
}

func (c *Classifier) setCategories(categories []Category) {
	c.categories = categories
	c.classes = make([]bayesian.Class, len(categories))
	c.byKey = make(map[string]Category, len(categories))
	for i, cat := range categories {
		c.classes[i] = bayesian.Class(cat.Key)
		c.byKey[cat.Key] = cat
	}
}

// Train fits the model on the given examples, or on the built-in
// default set when none are supplied. Returns the number of examples
// trained. Training replaces any previously accumulated examples.
func (c *Classifier) Train(examples []Example) (int, error) {
	if len(examples) == 0 {
		examples = DefaultTrainingSet()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ex := range examples {
		if _, ok := c.byKey[ex.Category]; !ok {
			return 0, &InvalidCategoryError{Key: ex.Category}
		}
	}

	c.examples = append([]Example(nil), examples...)
	c.refitLocked()
	return len(examples), nil
}

// refitLocked rebuilds the model from every accumulated example and
// swaps it in. Callers must hold the write lock. O(n) in example
// count; fine at the tens-to-hundreds scale this service operates at.
func (c *Classifier) refitLocked() {
	model := bayesian.NewClassifier(c.classes...)
	for _, ex := range c.examples {
		tokens := tokenize(ex.Text)
		if len(tokens) == 0 {
			continue
		}
		model.Learn(tokens, bayesian.Class(ex.Category))
	}
	c.model = model
	c.trained = true
}

// Classify assigns a category to the transaction. Calling before any
// training returns ErrNotTrained.
func (c *Classifier) Classify(tx Transaction) (*Result, error) {
	// Snapshot the model together with the taxonomy it was fitted
	// against; Load may swap both under the write lock.
	c.mu.RLock()
	model, trained := c.model, c.trained
	classes, byKey := c.classes, c.byKey
	c.mu.RUnlock()

	if !trained || model == nil {
		return nil, ErrNotTrained
	}

	key := NormalizeKey(tx.Description, tx.Merchant)
	tokens := strings.Fields(key)

	scores, inx, _ := model.ProbScores(tokens)
	chosen := string(classes[inx])

	confidence := defaultConfidence
	if inx >= 0 && inx < len(scores) && usableScore(scores[inx]) {
		confidence = math.Min(scores[inx], 1.0)
	}

	return &Result{
		Category:     chosen,
		Confidence:   confidence,
		Alternatives: alternatives(scores, chosen, classes, byKey),
		Metadata: Metadata{
			Text:        key,
			Amount:      tx.Amount,
			Merchant:    tx.Merchant,
			Description: tx.Description,
		},
	}, nil
}

// alternatives ranks every non-chosen category by score and returns
// the top three, each resolved to its display name. It works on a
// snapshot of the taxonomy so a concurrent Load cannot shift the
// score-to-class mapping mid-call.
func alternatives(scores []float64, chosen string, classes []bayesian.Class, byKey map[string]Category) []Alternative {
	ranked := make([]Alternative, 0, len(scores))
	for i, score := range scores {
		key := string(classes[i])
		if key == chosen {
			continue
		}
		if !usableScore(score) {
			score = 0
		}
		ranked = append(ranked, Alternative{
			Category:   key,
			Confidence: math.Min(score, 1.0),
			Name:       byKey[key].Name,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Confidence > ranked[j].Confidence })
	if len(ranked) > maxAlternatives {
		ranked = ranked[:maxAlternatives]
	}
	return ranked
}

// AddExample validates the category, appends one training example and
// synchronously refits the whole model.
func (c *Classifier) AddExample(text, category string, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byKey[category]; !ok {
		return &InvalidCategoryError{Key: category}
	}

	c.examples = append(c.examples, Example{
		Text:      strings.ToLower(text),
		Category:  category,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	})
	c.refitLocked()
	return nil
}

// Trained reports whether the model has been fitted.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trained
}

// ExampleCount returns the number of accumulated training examples.
func (c *Classifier) ExampleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.examples)
}

// Categories returns the taxonomy in stable order.
func (c *Classifier) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Category(nil), c.categories...)
}

// Stats aggregates the accumulated examples per category.
func (c *Classifier) Stats() map[string]CategoryStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]CategoryStats, len(c.categories))
	for _, cat := range c.categories {
		var count int
		var total float64
		for _, ex := range c.examples {
			if ex.Category == cat.Key {
				count++
				total += ex.Amount
			}
		}
		s := CategoryStats{Name: cat.Name, Count: count, TotalAmount: total}
		if count > 0 {
			s.AverageAmount = total / float64(count)
		}
		stats[cat.Key] = s
	}
	return stats
}

func usableScore(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s > 0
}

// NormalizeKey builds the classification key: description and merchant
// joined, NFKC-normalized, lower-cased, punctuation mapped to spaces
// and whitespace collapsed.
func NormalizeKey(description, merchant string) string {
	text := strings.ToLower(norm.NFKC.String(description + " " + merchant))
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// tokenize splits a training text into classification tokens using the
// same normalization as classification keys.
func tokenize(text string) []string {
	return strings.Fields(NormalizeKey(text, ""))
}
