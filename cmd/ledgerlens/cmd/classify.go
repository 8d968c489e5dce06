package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/classifier"
)

// classifyCmd represents the classify command.
var classifyCmd = &cobra.Command{
	Use:   "classify [description]",
	Short: "Categorize a transaction description",
	Long: `Assign an accounting category to a transaction description using the
naive Bayes classifier.

The classifier is loaded from --model when given, otherwise trained on
the built-in example set. With --learn the description is instead
recorded as a labeled training example and the model file is updated.

Examples:
  ledgerlens classify "Starbucks coffee" --amount 5.75
  ledgerlens classify "Figma license" --learn software --model model.json
  ledgerlens classify categories
  ledgerlens classify stats --model model.json`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

// categoriesCmd lists the taxonomy.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, classifier.DefaultCategories())
	},
}

// statsCmd prints per-category training statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training data statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cls, err := loadClassifier(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd, cls.Stats())
	},
}

func runClassify(cmd *cobra.Command, args []string) error {
	cls, err := loadClassifier(cmd)
	if err != nil {
		return err
	}

	description := args[0]
	amount, _ := cmd.Flags().GetFloat64("amount")

	if learn, _ := cmd.Flags().GetString("learn"); learn != "" {
		if err := cls.AddExample(description, learn, amount); err != nil {
			return err
		}
		if modelPath, _ := cmd.Flags().GetString("model"); modelPath != "" {
			if err := cls.Save(modelPath); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "learned %q as %s (%d examples)\n",
			description, learn, cls.ExampleCount())
		return err
	}

	merchant, _ := cmd.Flags().GetString("merchant")
	res, err := cls.Classify(classifier.Transaction{
		Description: description,
		Merchant:    merchant,
		Amount:      amount,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

// loadClassifier builds the classifier from --model or the default
// training set.
func loadClassifier(cmd *cobra.Command) (*classifier.Classifier, error) {
	cls := classifier.New()

	modelPath, _ := cmd.Flags().GetString("model")
	if modelPath == "" {
		modelPath = GetConfig().Classifier.ModelPath
	}
	if modelPath != "" {
		if _, err := os.Stat(modelPath); err == nil {
			if err := cls.Load(modelPath); err != nil {
				return nil, fmt.Errorf("loading model: %w", err)
			}
		}
	}
	if !cls.Trained() {
		if _, err := cls.Train(nil); err != nil {
			return nil, err
		}
	}
	return cls, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.AddCommand(categoriesCmd)
	classifyCmd.AddCommand(statsCmd)

	classifyCmd.PersistentFlags().String("model", "", "classifier model file")
	classifyCmd.Flags().StringP("merchant", "m", "", "merchant name")
	classifyCmd.Flags().Float64P("amount", "a", 0, "transaction amount")
	classifyCmd.Flags().String("learn", "", "record as training example for the given category")
}
