package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jbrukh/bayesian"
)

// ModelFileVersion identifies the persisted model format. Files with
// any other version are rejected rather than guessed at.
const ModelFileVersion = 1

// modelFile is the on-disk layout: one JSON document holding the
// fitted model (gob, base64 via encoding/json), the training examples
// and the taxonomy.
type modelFile struct {
	Version      int        `json:"version"`
	Classifier   []byte     `json:"classifier,omitempty"`
	TrainingData []Example  `json:"trainingData"`
	Categories   []Category `json:"categories"`
	IsTrained    bool       `json:"isTrained"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Save serializes the full classifier state to path.
func (c *Classifier) Save(path string) error {
	c.mu.RLock()
	file := modelFile{
		Version:      ModelFileVersion,
		TrainingData: append([]Example(nil), c.examples...),
		Categories:   append([]Category(nil), c.categories...),
		IsTrained:    c.trained,
		Timestamp:    time.Now().UTC(),
	}
	model := c.model
	c.mu.RUnlock()

	if file.IsTrained && model != nil {
		var buf bytes.Buffer
		if err := model.WriteTo(&buf); err != nil {
			return fmt.Errorf("serializing model: %w", err)
		}
		file.Classifier = buf.Bytes()
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}

// Load replaces the in-memory state with the contents of path. There
// are no partial or merge semantics: a successful load swaps
// everything, a failed one changes nothing.
func (c *Classifier) Load(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-provided model path is expected
	if err != nil {
		return fmt.Errorf("reading model file: %w", err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding model file: %w", err)
	}
	if file.Version != ModelFileVersion {
		return &UnsupportedVersionError{Version: file.Version}
	}

	var model *bayesian.Classifier
	if file.IsTrained && len(file.Classifier) > 0 {
		model, err = bayesian.NewClassifierFromReader(bytes.NewReader(file.Classifier))
		if err != nil {
			return fmt.Errorf("restoring model: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(file.Categories) > 0 {
		c.setCategories(file.Categories)
	}
	c.examples = file.TrainingData
	c.trained = file.IsTrained

	switch {
	case model != nil:
		c.model = model
	case c.trained:
		// Trained flag without a serialized model: refit from the
		// loaded examples.
		c.refitLocked()
	default:
		c.model = nil
	}
	return nil
}
