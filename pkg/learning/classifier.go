package learning

// Labels understood by the classifier
const (
	LabelSpam = "spam"
	LabelHam  = "ham"
)

// Classifier is a trainable two-class text classifier over token sequences.
// Documents are accumulated with AddDocument, counts are frozen with Train,
// and Classify returns the posterior probability of the spam label.
type Classifier interface {
	AddDocument(tokens []string, label string) error
	Train() error
	Classify(tokens []string) (float64, error)
	Reset() error
}

// Ensure both backends satisfy the interface
var _ Classifier = (*NaiveBayes)(nil)      // In-memory implementation
var _ Classifier = (*RedisClassifier)(nil) // Redis implementation
