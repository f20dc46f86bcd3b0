package domain

// VectorConfig names the embedding model the stored vectors were produced with.
// Queries must be encoded by the same model at the same dimension.
type VectorConfig struct {
	Model      string
	Dimensions int
}

// DefaultVectorConfig returns the Titan Text Embeddings v2 settings used by the news pipeline.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "amazon.titan-embed-text-v2:0",
		Dimensions: 1024,
	}
}
