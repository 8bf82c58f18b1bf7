package constant

const (
	// Chunking for the embedding pipeline. Overlap keeps sentences that
	// straddle a cut retrievable from both sides.
	IndexChunkSize    = 1500
	IndexChunkOverlap = 200

	// Must match the vector(768) column. Both supported embedding models
	// (nomic-embed-text, jina-embeddings-v2-base-en) emit 768-wide vectors.
	EmbeddingDimensions = 768
)
